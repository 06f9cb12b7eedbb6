package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Contrarian volatility: buy when annualized realized volatility spikes above
// the buy level (panic pricing), sell when it settles back below the sell
// level. High threshold buys, so the polarity filter is buy > sell.

func init() {
	register(&Spec{
		Name:   "volatility",
		Label:  "Volatility Spike Contrarian",
		Policy: backtest.Fractional,
		Params: []backtest.Parameter{
			{Name: "window", Type: backtest.ParameterInt, Min: 10, Max: 40, Step: 5},
			{Name: "buy", Type: backtest.ParameterFloat, Min: 20, Max: 45, Step: 5},
			{Name: "sell", Type: backtest.ParameterFloat, Min: 5, Max: 20, Step: 5},
		},
		Defaults: backtest.ParameterSet{"window": 20, "buy": 30.0, "sell": 15.0},
		Validate: buyAboveSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			return &backtest.ThresholdRule{
				Values:   indicators.HistoricalVolatility(ds.Prices.Closes(), ps.Int("window")),
				Buy:      ps.Float("buy"),
				Sell:     ps.Float("sell"),
				BuyAbove: true,
			}, nil
		},
	})
}
