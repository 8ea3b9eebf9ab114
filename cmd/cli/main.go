package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tkmc-personal/hybridsizer/internal/analysis"
	"github.com/tkmc-personal/hybridsizer/internal/config"
	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/finance"
	"github.com/tkmc-personal/hybridsizer/internal/search"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "search":
		cmdSearch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --cells 80 --turbines 20 --modules 30 --out-dir results")
	fmt.Println("  cli search --config examples/config.yaml --out-dir results")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes a per-timestep ledger CSV plus one cash-flow CSV per technology")
	fmt.Println("  - search sizes the plant with the strategy from the config (grid or evolve)")
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// loadInputs reads the config plus the four resource CSVs it points at and
// builds the shared evaluation oracle.
func loadInputs(cfgPath string) (*config.Config, *search.Evaluator, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	curve, err := data.LoadPowerCurveCSV(cfg.Resources.PowerCurveFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load power curve: %w", err)
	}
	windRes, err := data.LoadResourceCSV(cfg.Resources.WindFile, data.ColumnWindSpeed)
	if err != nil {
		return nil, nil, fmt.Errorf("load wind resource: %w", err)
	}
	solarRes, err := data.LoadResourceCSV(cfg.Resources.IrradianceFile, data.ColumnIrradiance)
	if err != nil {
		return nil, nil, fmt.Errorf("load irradiance resource: %w", err)
	}
	load, err := data.LoadResourceCSV(cfg.Resources.LoadFile, data.ColumnLoad)
	if err != nil {
		return nil, nil, fmt.Errorf("load demand profile: %w", err)
	}

	eval, err := search.NewEvaluator(
		cfg.WindParams(curve, 0),
		cfg.SolarParams(0),
		cfg.StorageParams(0),
		cfg.Storage.InitialSoC,
		windRes, solarRes, load,
		cfg.CostTable(),
		cfg.Search.MaxShortage,
	)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eval, nil
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	cells := fs.Float64("cells", 0, "Storage cell count")
	turbines := fs.Float64("turbines", 0, "Wind turbine count")
	modules := fs.Float64("modules", 0, "Solar module count")
	outDir := fs.String("out-dir", "results", "Output directory")
	_ = fs.Parse(args)

	log := newLogger()
	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	_, eval, err := loadInputs(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load inputs")
	}

	design := search.Candidate{Cells: *cells, Turbines: *turbines, Modules: *modules}
	ev, ledger, err := simulateDesign(eval, design)
	if err != nil {
		log.Fatal().Err(err).Msg("simulate")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}
	ledgerPath := filepath.Join(*outDir, "ledger.csv")
	if err := sim.WriteLedgerCSV(ledgerPath, ledger); err != nil {
		log.Fatal().Err(err).Msg("write ledger")
	}
	if err := writeCashFlows(*outDir, eval, design); err != nil {
		log.Fatal().Err(err).Msg("write cash flows")
	}

	s := analysis.Summarize(ledger)
	fmt.Printf("Wrote %d rows to %s\n", len(ledger), ledgerPath)
	fmt.Printf("Shortage=%.4f NPC=%.2f\n", ev.Shortage, ev.NPC)
	fmt.Printf("Load=%.0f kWh  Generation=%.0f kWh  Unmet=%.0f kWh (%d hours)\n",
		s.TotalLoadKWh, s.TotalGenerationKWh, s.TotalUnmetKWh, s.UnmetHours)
	fmt.Printf("Wind share=%.1f%%  Solar share=%.1f%%  Min SoC=%.1f\n",
		100*s.WindShareOfGen, 100*s.SolarShareOfGen, s.MinSoC)
}

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out-dir", "results", "Output directory")
	top := fs.Int("top", 10, "Number of ranked designs to print (grid only)")
	_ = fs.Parse(args)

	log := newLogger()
	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, eval, err := loadInputs(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load inputs")
	}

	strat := cfg.Strategy()
	result, err := strat.Search(eval)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}

	best := result.Best
	fmt.Printf("Optimal design (%s, %d evaluations):\n", strat.Name(), result.Evaluations)
	fmt.Printf("  cells=%.1f turbines=%.1f modules=%.1f\n",
		best.Candidate.Cells, best.Candidate.Turbines, best.Candidate.Modules)
	fmt.Printf("  shortage=%.4f (max %.4f)  NPC=%.2f\n",
		best.Shortage, eval.MaxShortage(), best.NPC)

	if len(result.Feasible) > 0 && *top > 0 {
		ranked := analysis.RankByNPC(result.Feasible)
		if len(ranked) > *top {
			ranked = ranked[:*top]
		}
		fmt.Println("Feasible designs, cheapest first:")
		for i, ev := range ranked {
			fmt.Printf("  %2d. cells=%5.1f turbines=%5.1f modules=%5.1f shortage=%.4f NPC=%.2f\n",
				i+1, ev.Candidate.Cells, ev.Candidate.Turbines, ev.Candidate.Modules, ev.Shortage, ev.NPC)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}
	_, ledger, err := simulateDesign(eval, best.Candidate)
	if err != nil {
		log.Fatal().Err(err).Msg("simulate optimal design")
	}
	ledgerPath := filepath.Join(*outDir, "ledger.csv")
	if err := sim.WriteLedgerCSV(ledgerPath, ledger); err != nil {
		log.Fatal().Err(err).Msg("write ledger")
	}
	if err := writeCashFlows(*outDir, eval, best.Candidate); err != nil {
		log.Fatal().Err(err).Msg("write cash flows")
	}
	fmt.Printf("Wrote ledger and cash-flow CSVs to %s\n", *outDir)
}

func simulateDesign(eval *search.Evaluator, design search.Candidate) (search.Evaluation, []sim.LedgerRow, error) {
	windP, err := eval.WindSeries(design.Turbines)
	if err != nil {
		return search.Evaluation{}, nil, err
	}
	solarP, err := eval.SolarSeries(design.Modules)
	if err != nil {
		return search.Evaluation{}, nil, err
	}
	storageP, soc, err := eval.StorageSeries(design.Cells, solarP, windP)
	if err != nil {
		return search.Evaluation{}, nil, err
	}
	ev, err := eval.Evaluate(design)
	if err != nil {
		return search.Evaluation{}, nil, err
	}
	ledger, err := sim.BuildLedger(eval.Load(), windP, solarP, storageP, soc)
	if err != nil {
		return search.Evaluation{}, nil, err
	}
	return ev, ledger, nil
}

func writeCashFlows(outDir string, eval *search.Evaluator, design search.Candidate) error {
	cells, turbines, modules := eval.CashFlows(design)
	for _, cf := range []struct {
		name string
		rows []finance.CashFlowRow
	}{
		{"cashflow_cells.csv", cells},
		{"cashflow_turbines.csv", turbines},
		{"cashflow_modules.csv", modules},
	} {
		if err := finance.WriteCashFlowCSV(filepath.Join(outDir, cf.name), cf.rows); err != nil {
			return err
		}
	}
	return nil
}
