package models

// SimulateRequest represents the request body for simulating one plant design
type SimulateRequest struct {
	Plant     PlantSettings   `json:"plant" binding:"required"`
	Design    Design          `json:"design" binding:"required"`
	Resources ResourceData    `json:"resources" binding:"required"`
	Options   SimulateOptions `json:"options,omitempty"`
}

// PlantSettings bundles the per-technology physics and the financial inputs
type PlantSettings struct {
	Wind       WindSettings    `json:"wind" binding:"required"`
	PowerCurve []CurvePoint    `json:"power_curve" binding:"required"`
	Solar      SolarSettings   `json:"solar" binding:"required"`
	Storage    StorageSettings `json:"storage" binding:"required"`
	Finance    FinanceSettings `json:"finance" binding:"required"`
}

// WindSettings defines the wind array site parameters
type WindSettings struct {
	HubHeightM        float64 `json:"hub_height_m"`
	AnemometerHeightM float64 `json:"anemometer_height_m"`
	SurfaceRoughnessM float64 `json:"surface_roughness_m"`
	AltitudeM         float64 `json:"altitude_m,omitempty"`
}

// CurvePoint is one (wind speed, power) point of the turbine power curve
type CurvePoint struct {
	WindSpeedMS float64 `json:"wind_speed_ms"`
	PowerKW     float64 `json:"power_kw"`
}

// SolarSettings defines the solar array site and module parameters
type SolarSettings struct {
	TimeZone         float64 `json:"time_zone"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Slope            float64 `json:"slope"`
	Azimuth          float64 `json:"azimuth"`
	ModuleCapacityKW float64 `json:"module_capacity_kw"`
	Albedo           float64 `json:"albedo"`
	DeratingFactor   float64 `json:"derating_factor"`
}

// StorageSettings defines the storage cell parameters
type StorageSettings struct {
	NominalVoltageV       float64 `json:"nominal_voltage_v"`
	NominalCapacityAh     float64 `json:"nominal_capacity_ah"`
	InitialSoC            float64 `json:"initial_soc,omitempty"` // default: 100
	MinSoC                float64 `json:"min_soc"`
	ChargeCurrentLimitA   float64 `json:"charge_current_limit_a"`
	DischargeCurrentLimitA float64 `json:"discharge_current_limit_a"`
	RoundTripEfficiency   float64 `json:"round_trip_efficiency"`
}

// FinanceSettings defines the discounted cash-flow inputs
type FinanceSettings struct {
	ProjectLifetimeYears float64        `json:"project_lifetime_years"`
	InflationRate        float64        `json:"inflation_rate"`
	NominalDiscountRate  float64        `json:"nominal_discount_rate"`
	Cells                ComponentCosts `json:"cells"`
	Turbines             ComponentCosts `json:"turbines"`
	Modules              ComponentCosts `json:"modules"`
}

// ComponentCosts are the per-component economics of one technology
type ComponentCosts struct {
	LifetimeYears   float64 `json:"lifetime_years"`
	CapitalCost     float64 `json:"capital_cost"`
	ReplacementCost float64 `json:"replacement_cost"`
	OMCostPerYear   float64 `json:"om_cost_per_year"`
}

// Design is one plant design: component counts per technology
type Design struct {
	Cells    float64 `json:"cells"`
	Turbines float64 `json:"turbines"`
	Modules  float64 `json:"modules"`
}

// ResourceData carries the co-indexed resource profiles inline. Timestamps
// are generated from Start at StepHours resolution.
type ResourceData struct {
	Start       string    `json:"start" binding:"required"` // RFC 3339
	StepHours   float64   `json:"step_hours,omitempty"`     // default: 1
	WindSpeedMS []float64 `json:"wind_speed_ms" binding:"required"`
	Irradiance  []float64 `json:"irradiance" binding:"required"` // kW/m2
	LoadKW      []float64 `json:"load_kw" binding:"required"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeLedger    bool `json:"include_ledger,omitempty"`    // default: false
	IncludeCashFlows bool `json:"include_cash_flows,omitempty"` // default: false
}

// GridSearchRequest represents a request to size the plant by grid sweep
type GridSearchRequest struct {
	Plant       PlantSettings `json:"plant" binding:"required"`
	Resources   ResourceData  `json:"resources" binding:"required"`
	MaxShortage float64       `json:"max_shortage"`
	Counts      CountRange    `json:"counts"`
	Workers     int           `json:"workers,omitempty"`
}

// CountRange defines the candidate counts swept per technology
type CountRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`  // default: 100
	Step float64 `json:"step"` // default: 10
}

// EvolveSearchRequest represents a request to size the plant by
// differential evolution
type EvolveSearchRequest struct {
	Plant       PlantSettings  `json:"plant" binding:"required"`
	Resources   ResourceData   `json:"resources" binding:"required"`
	MaxShortage float64        `json:"max_shortage"`
	Bounds      CountRange     `json:"bounds"`
	Evolve      EvolveSettings `json:"evolve,omitempty"`
}

// EvolveSettings tunes the differential evolution run
type EvolveSettings struct {
	PopSize        int     `json:"pop_size,omitempty"`
	MutationMin    float64 `json:"mutation_min,omitempty"`
	MutationMax    float64 `json:"mutation_max,omitempty"`
	CrossoverProb  float64 `json:"crossover_prob,omitempty"`
	Tol            float64 `json:"tol,omitempty"`
	MaxGenerations int     `json:"max_generations,omitempty"`
	Seed           int64   `json:"seed,omitempty"`
}
