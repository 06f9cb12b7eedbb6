package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Donchian channel breakout over the prior window's high and low. The channel
// excludes the current close, otherwise a new high could never break it.

func init() {
	register(&Spec{
		Name:   "donchian",
		Label:  "Donchian Channel Breakout",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "window", Type: backtest.ParameterInt, Min: 10, Max: 60, Step: 5},
		},
		Defaults: backtest.ParameterSet{"window": 20},
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			dc := indicators.Donchian(ds.Prices.Closes(), ps.Int("window"))
			return &backtest.BandRule{
				Price: indicators.FromFloats(ds.Prices.Closes()),
				Upper: dc.High,
				Lower: dc.Low,
			}, nil
		},
	})
}
