// Parameter Search CLI
// Runs a grid or random search over one strategy's parameter space and prints
// the ranked summary, optionally writing the full result set as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	strategyName = flag.String("strategy", "", "Strategy name (see cmd/backtest -list)")
	mode         = flag.String("mode", "grid", "Search mode: grid or random")
	iterations   = flag.Int("iterations", 0, "Random search iteration budget (overrides config)")
	seed         = flag.Int64("seed", 0, "Random search seed (overrides config)")
	workers      = flag.Int("workers", 0, "Parallel workers (overrides config)")
	topK         = flag.Int("topk", 0, "Candidates to retain (overrides config)")
	metricName   = flag.String("metric", "", "Primary ranking metric: total_return, annual_return, risk_adjusted")
	dataPath     = flag.String("data", "", "Price history JSON file (overrides config)")
	seriesKey    = flag.String("series", "", "Series key inside the price file (overrides config)")
	outputPath   = flag.String("output", "", "JSON summary output path (overrides config)")
	configPath   = flag.String("config", "", "Config file path")
	tableRows    = flag.Int("table", 5, "Rows in the console top table")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
)

// ============================================================================
// MAIN
// ============================================================================

func main() {
	flag.Parse()

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

	metric, err := resolveMetric(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad metric")
	}

	dataset, err := loadDataset(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load market data")
	}

	opt, err := backtest.NewOptimizer(backtest.OptimizerConfig{
		Strategy: spec.Name,
		Params:   spec.Params,
		Factory:  spec.Factory(dataset),
		Validate: spec.Validate,
		Sim: backtest.SimConfig{
			InitialCapital: cfg.Backtest.InitialCapital,
			Lot:            spec.Policy,
		},
		Metric:     metric,
		TopK:       override(*topK, cfg.Search.TopK),
		Workers:    override(*workers, cfg.Search.Workers),
		Iterations: override(*iterations, cfg.Search.Iterations),
		Seed:       override64(*seed, cfg.Search.Seed),
		Baseline:   spec.Defaults,
	}, dataset.Prices, config.NewLogger("optimizer"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build optimizer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary *backtest.Summary
	switch *mode {
	case "grid":
		summary, err = opt.GridSearch(ctx)
	case "random":
		summary, err = opt.RandomSearch(ctx)
	default:
		log.Fatal().Str("mode", *mode).Msg("Search mode must be grid or random")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Search failed")
	}

	fmt.Print(backtest.SummaryReport(summary, metric, *tableRows))

	if out := resolveOutput(cfg); out != "" {
		if err := backtest.WriteSummaryJSON(out, summary); err != nil {
			log.Fatal().Err(err).Msg("Failed to write summary")
		}
		log.Info().Str("path", out).Msg("Summary written")
	}
}

func resolveMetric(cfg *config.Config) (backtest.Metric, error) {
	name := cfg.Search.Metric
	if *metricName != "" {
		name = *metricName
	}
	return backtest.ParseMetric(name)
}

func resolveOutput(cfg *config.Config) string {
	if *outputPath != "" {
		return *outputPath
	}
	return cfg.Search.OutputPath
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

func override(flagVal, cfgVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}

func override64(flagVal, cfgVal int64) int64 {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}
