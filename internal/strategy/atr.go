package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// MA trend entry with an ATR trailing exit: buy when price clears the long
// moving average, sell when it falls more than mult ATRs below it.

func init() {
	register(&Spec{
		Name:   "atr-trailing",
		Label:  "MA Entry with ATR Trailing Stop",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "maWindow", Type: backtest.ParameterInt, Min: 20, Max: 120, Step: 10},
			{Name: "atrWindow", Type: backtest.ParameterInt, Min: 7, Max: 28, Step: 7},
			{Name: "mult", Type: backtest.ParameterFloat, Min: 1, Max: 4, Step: 0.5},
		},
		Defaults: backtest.ParameterSet{"maWindow": 60, "atrWindow": 14, "mult": 2.0},
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			closes := ds.Prices.Closes()
			ma := indicators.SMA(closes, ps.Int("maWindow"))
			atr := indicators.ATR(closes, ps.Int("atrWindow"))
			mult := ps.Float("mult")

			lower := make(indicators.Series, len(closes))
			for i := range lower {
				m, mok := ma.At(i).Float64()
				a, aok := atr.At(i).Float64()
				if mok && aok {
					lower[i] = indicators.Defined(m - mult*a)
				}
			}

			return &backtest.BandRule{
				Price: indicators.FromFloats(closes),
				Upper: ma,
				Lower: lower,
			}, nil
		},
	})
}
