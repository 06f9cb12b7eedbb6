package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Moving-average crossover, plus the contrarian variant that buys the dead
// cross. The reverse variant suits range-bound defensive assets where trend
// signals mostly mark local extremes.

func maCrossParams() []backtest.Parameter {
	return []backtest.Parameter{
		{Name: "short", Type: backtest.ParameterInt, Min: 5, Max: 30, Step: 5},
		{Name: "long", Type: backtest.ParameterInt, Min: 20, Max: 120, Step: 10},
	}
}

func buildMACross(reverse bool) func(*marketdata.Dataset, backtest.ParameterSet) (backtest.SignalRule, error) {
	return func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
		closes := ds.Prices.Closes()
		return &backtest.CrossoverRule{
			Fast:    indicators.SMA(closes, ps.Int("short")),
			Slow:    indicators.SMA(closes, ps.Int("long")),
			Reverse: reverse,
		}, nil
	}
}

func init() {
	register(&Spec{
		Name:     "ma-cross",
		Label:    "Moving Average Crossover",
		Policy:   backtest.RoundLot,
		Params:   maCrossParams(),
		Defaults: backtest.ParameterSet{"short": 20, "long": 60},
		Validate: shortBelowLong("short", "long"),
		Build:    buildMACross(false),
	})

	register(&Spec{
		Name:     "ma-reverse",
		Label:    "Moving Average Crossover (contrarian)",
		Policy:   backtest.Fractional,
		Params:   maCrossParams(),
		Defaults: backtest.ParameterSet{"short": 20, "long": 60},
		Validate: shortBelowLong("short", "long"),
		Build:    buildMACross(true),
	})
}
