package strategy

import (
	"etfquant/internal/indicators"
	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Equity risk premium timing: buy when the dividend-yield minus bond-yield
// spread is wide (equities cheap relative to bonds), sell when it narrows.

func init() {
	register(&Spec{
		Name:   "erp",
		Label:  "Equity Risk Premium Timing",
		Policy: backtest.RoundLot,
		Params: []backtest.Parameter{
			{Name: "buy", Type: backtest.ParameterFloat, Min: 0.4, Max: 1.6, Step: 0.2},
			{Name: "sell", Type: backtest.ParameterFloat, Min: -0.4, Max: 0.4, Step: 0.2},
		},
		Defaults: backtest.ParameterSet{"buy": 0.8, "sell": 0.2},
		Validate: buyAboveSell("buy", "sell"),
		Build: func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error) {
			erp, err := ds.RequireERP()
			if err != nil {
				return nil, err
			}
			return &backtest.ThresholdRule{
				Values:   indicators.FromFloats(erp),
				Buy:      ps.Float("buy"),
				Sell:     ps.Float("sell"),
				BuyAbove: true,
			}, nil
		},
	})
}
