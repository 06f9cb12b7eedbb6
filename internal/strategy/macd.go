package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// MACD line crossing its signal line, the crossover family applied to EMA
// spreads instead of raw moving averages.

func init() {
	register(&Spec{
		Name:   "macd",
		Label:  "MACD Signal Cross",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "fast", Type: backtest.ParameterInt, Min: 8, Max: 16, Step: 2},
			{Name: "slow", Type: backtest.ParameterInt, Min: 20, Max: 32, Step: 2},
			{Name: "signal", Type: backtest.ParameterInt, Min: 5, Max: 12, Step: 1},
		},
		Defaults: backtest.ParameterSet{"fast": 12, "slow": 26, "signal": 9},
		Validate: shortBelowLong("fast", "slow"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			macd := indicators.MACD(ds.Prices.Closes(), ps.Int("fast"), ps.Int("slow"), ps.Int("signal"))
			return &backtest.CrossoverRule{Fast: macd.Line, Slow: macd.Signal}, nil
		},
	})
}
