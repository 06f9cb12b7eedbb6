package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Volatility-aware RSI: base thresholds shift with realized volatility so the
// rule demands deeper oversold readings when the market is turbulent. The
// adjustment coefficient k is a search axis alongside the base thresholds.

const dynamicVolWindow = 20

func init() {
	register(&Spec{
		Name:   "rsi-dynamic",
		Label:  "RSI with Volatility-Adjusted Thresholds",
		Policy: backtest.Fractional,
		Params: []backtest.Parameter{
			{Name: "period", Type: backtest.ParameterInt, Min: 6, Max: 24, Step: 2},
			{Name: "buy", Type: backtest.ParameterFloat, Min: 25, Max: 40, Step: 5},
			{Name: "sell", Type: backtest.ParameterFloat, Min: 60, Max: 75, Step: 5},
			{Name: "k", Type: backtest.ParameterFloat, Min: 0, Max: 2, Step: 0.25},
		},
		Defaults: backtest.ParameterSet{"period": 14, "buy": 30.0, "sell": 70.0, "k": 0.5},
		Validate: buyBelowSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			closes := ds.Prices.Closes()
			return &backtest.DynamicThresholdRule{
				Values:     indicators.RSI(closes, ps.Int("period")),
				Volatility: indicators.HistoricalVolatility(closes, dynamicVolWindow),
				BaseBuy:    ps.Float("buy"),
				BaseSell:   ps.Float("sell"),
				K:          ps.Float("k"),
			}, nil
		},
	})
}
