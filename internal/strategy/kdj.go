package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// KDJ stochastic: buy the K line crossing above D, sell it crossing below.
// Smoothing factors for K and D are fixed at the conventional 3.

const kdjSmooth = 3

func init() {
	register(&Spec{
		Name:   "kdj",
		Label:  "KDJ Stochastic Cross",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "n", Type: backtest.ParameterInt, Min: 5, Max: 21, Step: 2},
		},
		Defaults: backtest.ParameterSet{"n": 9},
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			kdj := indicators.KDJ(ds.Prices.Closes(), ps.Int("n"), kdjSmooth, kdjSmooth)
			return &backtest.CrossoverRule{Fast: kdj.K, Slow: kdj.D}, nil
		},
	})
}
