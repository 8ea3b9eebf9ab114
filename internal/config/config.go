package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tkmc-personal/hybridsizer/internal/finance"
	"github.com/tkmc-personal/hybridsizer/internal/model"
	"github.com/tkmc-personal/hybridsizer/internal/search"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Wind    WindConfig    `yaml:"wind"`
	Solar   SolarConfig   `yaml:"solar"`
	Storage StorageConfig `yaml:"storage"`
	Finance FinanceConfig `yaml:"finance"`
	Search  SearchConfig  `yaml:"search"`

	Resources ResourcesConfig `yaml:"resources"`
}

// ResourcesConfig locates the input files. Relative paths are interpreted
// relative to the config file directory when that resolves, falling back to
// the working directory.
type ResourcesConfig struct {
	WindFile       string `yaml:"wind_file"`
	IrradianceFile string `yaml:"irradiance_file"`
	LoadFile       string `yaml:"load_file"`
	PowerCurveFile string `yaml:"power_curve_file"`
}

type WindConfig struct {
	HubHeight        float64 `yaml:"hub_height_m"`
	AnemometerHeight float64 `yaml:"anemometer_height_m"`
	SurfaceRoughness float64 `yaml:"surface_roughness_m"`
	Altitude         float64 `yaml:"altitude_m"`
}

type SolarConfig struct {
	TimeZone         float64 `yaml:"time_zone"`
	Latitude         float64 `yaml:"latitude"`
	Longitude        float64 `yaml:"longitude"`
	Slope            float64 `yaml:"slope"`
	Azimuth          float64 `yaml:"azimuth"`
	StepHours        float64 `yaml:"step_hours"`
	ModuleCapacityKW float64 `yaml:"module_capacity_kw"`
	Albedo           float64 `yaml:"albedo"`
	DeratingFactor   float64 `yaml:"derating_factor"`
}

type StorageConfig struct {
	StepHours             float64 `yaml:"step_hours"`
	NominalVoltage        float64 `yaml:"nominal_voltage_v"`
	NominalCapacityAh     float64 `yaml:"nominal_capacity_ah"`
	InitialSoC            float64 `yaml:"initial_soc"`
	MinSoC                float64 `yaml:"min_soc"`
	ChargeCurrentLimit    float64 `yaml:"charge_current_limit_a"`
	DischargeCurrentLimit float64 `yaml:"discharge_current_limit_a"`
	RoundTripEfficiency   float64 `yaml:"round_trip_efficiency"`
}

type ComponentCostConfig struct {
	Lifetime        float64 `yaml:"lifetime_years"`
	CapitalCost     float64 `yaml:"capital_cost"`
	ReplacementCost float64 `yaml:"replacement_cost"`
	OMCost          float64 `yaml:"om_cost_per_year"`
}

type FinanceConfig struct {
	ProjectLifetime     float64             `yaml:"project_lifetime_years"`
	InflationRate       float64             `yaml:"inflation_rate"`
	NominalDiscountRate float64             `yaml:"nominal_discount_rate"`
	Cells               ComponentCostConfig `yaml:"cells"`
	Turbines            ComponentCostConfig `yaml:"turbines"`
	Modules             ComponentCostConfig `yaml:"modules"`
}

type SearchConfig struct {
	Strategy    string       `yaml:"strategy"` // "grid" or "evolve"
	MaxShortage float64      `yaml:"max_shortage"`
	Counts      CountsConfig `yaml:"counts"`
	Evolve      EvolveConfig `yaml:"evolve"`
}

type CountsConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type EvolveConfig struct {
	PopSize        int        `yaml:"pop_size"`
	Mutation       [2]float64 `yaml:"mutation"`
	CrossoverProb  float64    `yaml:"crossover_prob"`
	Tol            float64    `yaml:"tol"`
	MaxGenerations int        `yaml:"max_generations"`
	Seed           int64      `yaml:"seed"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaults or validation.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// Resolve resource paths against the config file directory when they
	// exist there; otherwise leave them for the working directory.
	dir := filepath.Dir(path)
	for _, p := range []*string{
		&c.Resources.WindFile,
		&c.Resources.IrradianceFile,
		&c.Resources.LoadFile,
		&c.Resources.PowerCurveFile,
	} {
		if *p == "" || filepath.IsAbs(*p) {
			continue
		}
		cand := filepath.Join(dir, *p)
		if _, err := os.Stat(cand); err == nil {
			*p = cand
		}
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Solar.StepHours == 0 {
		c.Solar.StepHours = 1
	}
	if c.Storage.StepHours == 0 {
		c.Storage.StepHours = 1
	}
	// A full pack at the start of the year, unless told otherwise.
	if c.Storage.InitialSoC == 0 {
		c.Storage.InitialSoC = 100
	}
	if c.Search.Strategy == "" {
		c.Search.Strategy = "grid"
	}
	if c.Search.Counts.Max == 0 {
		c.Search.Counts.Max = 100
	}
	if c.Search.Counts.Step == 0 {
		c.Search.Counts.Step = 10
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate physics parameters by constructing the models, so a bad
	// value fails here and never mid-simulation.
	if _, err := model.NewWindArray(c.WindParams(model.PowerCurve{Points: []model.CurvePoint{{WindSpeed: 0, Power: 0}, {WindSpeed: 1, Power: 1}}}, 1)); err != nil {
		return fmt.Errorf("wind config invalid: %w", err)
	}
	if _, err := model.NewSolarArray(c.SolarParams(1)); err != nil {
		return fmt.Errorf("solar config invalid: %w", err)
	}
	if _, err := model.NewStorageArray(c.StorageParams(1), c.Storage.InitialSoC); err != nil {
		return fmt.Errorf("storage config invalid: %w", err)
	}
	if err := c.CostTable().Validate(); err != nil {
		return fmt.Errorf("finance config invalid: %w", err)
	}
	switch c.Search.Strategy {
	case "grid", "evolve":
	default:
		return fmt.Errorf("unsupported search strategy: %q", c.Search.Strategy)
	}
	if c.Search.MaxShortage < 0 || c.Search.MaxShortage > 1 {
		return errors.New("search.max_shortage must be in [0, 1]")
	}
	if c.Search.Counts.Step <= 0 || c.Search.Counts.Max < c.Search.Counts.Min || c.Search.Counts.Min < 0 {
		return errors.New("search.counts must satisfy 0 <= min <= max, step > 0")
	}
	return nil
}

// WindParams materializes model parameters for a turbine count.
func (c *Config) WindParams(curve model.PowerCurve, count float64) model.WindParams {
	return model.WindParams{
		HubHeight:        c.Wind.HubHeight,
		AnemometerHeight: c.Wind.AnemometerHeight,
		SurfaceRoughness: c.Wind.SurfaceRoughness,
		Altitude:         c.Wind.Altitude,
		TurbineCount:     count,
		Curve:            curve,
	}
}

// SolarParams materializes model parameters for a module count.
func (c *Config) SolarParams(count float64) model.SolarParams {
	return model.SolarParams{
		TimeZone:         c.Solar.TimeZone,
		Longitude:        c.Solar.Longitude,
		Latitude:         c.Solar.Latitude,
		Slope:            c.Solar.Slope,
		Azimuth:          c.Solar.Azimuth,
		StepHours:        c.Solar.StepHours,
		ModuleCapacityKW: c.Solar.ModuleCapacityKW,
		ModuleCount:      count,
		Albedo:           c.Solar.Albedo,
		DeratingFactor:   c.Solar.DeratingFactor,
	}
}

// StorageParams materializes model parameters for a cell count.
func (c *Config) StorageParams(count float64) model.StorageParams {
	return model.StorageParams{
		StepHours:             c.Storage.StepHours,
		CellCount:             count,
		NominalVoltage:        c.Storage.NominalVoltage,
		NominalCapacityAh:     c.Storage.NominalCapacityAh,
		MinSoC:                c.Storage.MinSoC,
		ChargeCurrentLimit:    c.Storage.ChargeCurrentLimit,
		DischargeCurrentLimit: c.Storage.DischargeCurrentLimit,
		RoundTripEfficiency:   c.Storage.RoundTripEfficiency,
	}
}

// CostTable materializes the financial inputs.
func (c *Config) CostTable() search.CostTable {
	return search.CostTable{
		Project: finance.ProjectParams{
			Lifetime:            c.Finance.ProjectLifetime,
			InflationRate:       c.Finance.InflationRate,
			NominalDiscountRate: c.Finance.NominalDiscountRate,
		},
		Cells:    c.Finance.Cells.toCosts(),
		Turbines: c.Finance.Turbines.toCosts(),
		Modules:  c.Finance.Modules.toCosts(),
	}
}

func (cc ComponentCostConfig) toCosts() finance.ComponentCosts {
	return finance.ComponentCosts{
		Lifetime:        cc.Lifetime,
		CapitalCost:     cc.CapitalCost,
		ReplacementCost: cc.ReplacementCost,
		OMCost:          cc.OMCost,
	}
}

// Strategy builds the configured search strategy.
func (c *Config) Strategy() search.Strategy {
	switch c.Search.Strategy {
	case "evolve":
		bounds := [3][2]float64{
			{c.Search.Counts.Min, c.Search.Counts.Max},
			{c.Search.Counts.Min, c.Search.Counts.Max},
			{c.Search.Counts.Min, c.Search.Counts.Max},
		}
		return &search.DifferentialEvolution{
			Bounds:         bounds,
			PopSize:        c.Search.Evolve.PopSize,
			Mutation:       c.Search.Evolve.Mutation,
			CrossoverProb:  c.Search.Evolve.CrossoverProb,
			Tol:            c.Search.Evolve.Tol,
			MaxGenerations: c.Search.Evolve.MaxGenerations,
			Seed:           c.Search.Evolve.Seed,
		}
	default:
		return &search.GridSearch{
			Counts: search.CountRange(c.Search.Counts.Min, c.Search.Counts.Max, c.Search.Counts.Step),
		}
	}
}
