package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Bollinger breakout: buy a close above the upper band, sell a close below
// the lower band.

func init() {
	register(&Spec{
		Name:   "bollinger",
		Label:  "Bollinger Band Breakout",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "window", Type: backtest.ParameterInt, Min: 10, Max: 40, Step: 5},
			{Name: "numStd", Type: backtest.ParameterFloat, Min: 1.5, Max: 3, Step: 0.5},
		},
		Defaults: backtest.ParameterSet{"window": 20, "numStd": 2.0},
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			bb := indicators.Bollinger(ds.Prices.Closes(), ps.Int("window"), ps.Float("numStd"))
			return &backtest.BandRule{
				Price: indicators.FromFloats(ds.Prices.Closes()),
				Upper: bb.Upper,
				Lower: bb.Lower,
			}, nil
		},
	})
}
