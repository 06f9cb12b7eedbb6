// Package backtest provides a signal-driven backtest simulator and parameter
// search driver for single-asset technical trading strategies.
package backtest

import (
	"fmt"
	"sort"
	"time"
)

// DateFormat is the wire format for calendar dates in price data and artifacts.
const DateFormat = "2006-01-02"

// ============================================================================
// PRICE SERIES
// ============================================================================

// PricePoint is one daily closing price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a date-sorted daily price history for a single instrument.
// It is immutable once built and shared read-only across simulation runs.
type PriceSeries []PricePoint

// NewPriceSeries sorts the points by date and validates them: at least one
// point, strictly increasing dates, positive closes. Calendar gaps (market
// holidays) are allowed.
func NewPriceSeries(points []PricePoint) (PriceSeries, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("price series is empty")
	}

	series := make(PriceSeries, len(points))
	copy(series, points)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	for i, p := range series {
		if p.Close <= 0 {
			return nil, fmt.Errorf("non-positive close %.4f at %s", p.Close, p.Date.Format(DateFormat))
		}
		if i > 0 && !series[i-1].Date.Before(p.Date) {
			return nil, fmt.Errorf("duplicate date %s", p.Date.Format(DateFormat))
		}
	}

	return series, nil
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Start returns the first trading date.
func (s PriceSeries) Start() time.Time { return s[0].Date }

// End returns the last trading date.
func (s PriceSeries) End() time.Time { return s[len(s)-1].Date }

// CalendarDays returns the elapsed wall-clock days between the first and last
// point.
func (s PriceSeries) CalendarDays() int {
	return int(s.End().Sub(s.Start()).Hours() / 24)
}
