package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Volume surge: buy when volume runs well above its long average, sell when
// it dries up. Requires a volume series on the dataset, synthetic or real.

func init() {
	register(&Spec{
		Name:   "volume",
		Label:  "Volume Ratio Surge",
		Policy: backtest.Fractional,
		Params: []backtest.Parameter{
			{Name: "window", Type: backtest.ParameterInt, Min: 50, Max: 250, Step: 50},
			{Name: "buy", Type: backtest.ParameterFloat, Min: 1.2, Max: 2.4, Step: 0.2},
			{Name: "sell", Type: backtest.ParameterFloat, Min: 0.4, Max: 1.0, Step: 0.1},
		},
		Defaults: backtest.ParameterSet{"window": 250, "buy": 1.5, "sell": 0.7},
		Validate: buyAboveSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			volume, err := ds.RequireVolume()
			if err != nil {
				return nil, err
			}
			return &backtest.ThresholdRule{
				Values:   indicators.VolumeRatio(volume, ps.Int("window")),
				Buy:      ps.Float("buy"),
				Sell:     ps.Float("sell"),
				BuyAbove: true,
			}, nil
		},
	})
}
