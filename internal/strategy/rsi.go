package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Classic RSI mean reversion: buy oversold, sell overbought, trading round
// lots. The "ideal" variant switches to exponential RSI smoothing and
// fractional shares, which is what the fully continuous version of the
// strategy would achieve without lot constraints.

func init() {
	register(&Spec{
		Name:   "rsi",
		Label:  "RSI Mean Reversion",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "period", Type: backtest.ParameterInt, Min: 6, Max: 24, Step: 2},
			{Name: "buy", Type: backtest.ParameterFloat, Min: 20, Max: 40, Step: 5},
			{Name: "sell", Type: backtest.ParameterFloat, Min: 60, Max: 80, Step: 5},
		},
		Defaults: backtest.ParameterSet{"period": 14, "buy": 30.0, "sell": 70.0},
		Validate: buyBelowSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			return &backtest.ThresholdRule{
				Values: indicators.RSI(ds.Prices.Closes(), ps.Int("period")),
				Buy:    ps.Float("buy"),
				Sell:   ps.Float("sell"),
			}, nil
		},
	})

	register(&Spec{
		Name:   "rsi-ideal",
		Label:  "RSI Mean Reversion (exponential, fractional shares)",
		Policy: backtest.Fractional,
		Params: []backtest.Parameter{
			{Name: "period", Type: backtest.ParameterInt, Min: 6, Max: 24, Step: 2},
			{Name: "buy", Type: backtest.ParameterFloat, Min: 20, Max: 40, Step: 5},
			{Name: "sell", Type: backtest.ParameterFloat, Min: 60, Max: 80, Step: 5},
		},
		Defaults: backtest.ParameterSet{"period": 14, "buy": 30.0, "sell": 70.0},
		Validate: buyBelowSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			return &backtest.ThresholdRule{
				Values: indicators.RSIEMA(ds.Prices.Closes(), ps.Int("period")),
				Buy:    ps.Float("buy"),
				Sell:   ps.Float("sell"),
			}, nil
		},
	})
}
