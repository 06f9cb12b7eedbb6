// Package marketdata loads daily price history and derives the auxiliary
// series (volume, yield spreads) some strategies need but real data feeds do
// not always carry.
package marketdata

import (
	"fmt"

	"etfquant/pkg/backtest"
)

// Dataset bundles everything a strategy can draw signals from. Prices are
// always real; Volume and ERP may be synthetic stand-ins produced by the
// providers in this package, and every auxiliary series is aligned 1:1 by
// index with Prices.
type Dataset struct {
	Prices backtest.PriceSeries
	Volume []float64
	ERP    []float64
}

// VolumeProvider derives a volume series aligned with the given prices.
// Implementations must be deterministic for a fixed input.
type VolumeProvider interface {
	Volume(prices backtest.PriceSeries) []float64
}

// ERPProvider derives an equity-risk-premium series aligned with the given
// prices.
type ERPProvider interface {
	ERP(prices backtest.PriceSeries) []float64
}

// Build assembles a dataset from loaded prices. Nil providers leave the
// corresponding series empty; strategies that need a missing series fail at
// construction with a clear error instead of at simulation time.
func Build(prices backtest.PriceSeries, vp VolumeProvider, ep ERPProvider) *Dataset {
	ds := &Dataset{Prices: prices}
	if vp != nil {
		ds.Volume = vp.Volume(prices)
	}
	if ep != nil {
		ds.ERP = ep.ERP(prices)
	}
	return ds
}

// RequireVolume returns the volume series or an error when no provider
// populated it.
func (d *Dataset) RequireVolume() ([]float64, error) {
	if len(d.Volume) != len(d.Prices) {
		return nil, fmt.Errorf("no volume series available for %d price points", len(d.Prices))
	}
	return d.Volume, nil
}

// RequireERP returns the equity-risk-premium series or an error when no
// provider populated it.
func (d *Dataset) RequireERP() ([]float64, error) {
	if len(d.ERP) != len(d.Prices) {
		return nil, fmt.Errorf("no equity risk premium series available for %d price points", len(d.Prices))
	}
	return d.ERP, nil
}
