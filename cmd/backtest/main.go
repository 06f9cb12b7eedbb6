// Backtest Runner CLI
// Replays one strategy's baseline parameters against a price history and
// prints the performance report.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfquant/internal/config"
	"etfquant/internal/marketdata"
	"etfquant/internal/strategy"
	"etfquant/pkg/backtest"
)

// ============================================================================
// CLI FLAGS
// ============================================================================

var (
	strategyName = flag.String("strategy", "", "Strategy name (see -list)")
	listOnly     = flag.Bool("list", false, "List available strategies and exit")
	dataPath     = flag.String("data", "", "Price history JSON file (overrides config)")
	seriesKey    = flag.String("series", "", "Series key inside the price file (overrides config)")
	configPath   = flag.String("config", "", "Config file path")
	capital      = flag.Float64("capital", 0, "Initial capital (overrides config)")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
)

// ============================================================================
// MAIN
// ============================================================================

func main() {
	flag.Parse()

	if *listOnly {
		for _, name := range strategy.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config.InitLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *strategyName == "" {
		fmt.Fprintln(os.Stderr, "Error: -strategy flag is required")
		flag.Usage()
		os.Exit(1)
	}

	spec, err := strategy.Lookup(*strategyName)
	if err != nil {
		log.Fatal().Err(err).Msg("Unknown strategy")
	}

	dataset, err := loadDataset(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load market data")
	}

	initialCapital := cfg.Backtest.InitialCapital
	if *capital > 0 {
		initialCapital = *capital
	}

	log.Info().
		Str("strategy", spec.Name).
		Int("days", len(dataset.Prices)).
		Float64("capital", initialCapital).
		Msg("Starting backtest")

	rule, err := spec.Build(dataset, spec.Defaults)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build signal rule")
	}

	sim := backtest.NewSimulator(backtest.SimConfig{
		InitialCapital: initialCapital,
		Lot:            spec.Policy,
	}, config.NewLogger("simulator"))

	res := sim.Run(dataset.Prices, rule)
	stats := backtest.ComputeStats(res)

	fmt.Print(backtest.RunReport(spec.Label, dataset.Prices, res, stats))
}

func loadDataset(cfg *config.Config) (*marketdata.Dataset, error) {
	path := cfg.Data.PricePath
	if *dataPath != "" {
		path = *dataPath
	}
	key := cfg.Data.SeriesKey
	if *seriesKey != "" {
		key = *seriesKey
	}

	prices, err := marketdata.LoadPrices(path, key)
	if err != nil {
		return nil, err
	}

	vp := &marketdata.SyntheticVolume{Seed: cfg.Data.VolumeSeed, Base: cfg.Data.VolumeBase}
	return marketdata.Build(prices, vp, marketdata.SyntheticERP{}), nil
}
