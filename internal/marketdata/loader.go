package marketdata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"etfquant/pkg/backtest"
)

// historyFile is the on-disk artifact shape: per-strategy daily value lists
// keyed by strategy name. Only the date and close fields matter for loading;
// extra fields in each entry are ignored.
type historyFile struct {
	DailyValues map[string][]historyEntry `json:"daily_values"`
}

type historyEntry struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// LoadPrices reads a price history JSON file and returns the series stored
// under key. An empty key selects the only series in the file and fails when
// the file holds more than one.
func LoadPrices(path, key string) (backtest.PriceSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price history: %w", err)
	}

	var hist historyFile
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, fmt.Errorf("failed to parse price history %s: %w", path, err)
	}
	if len(hist.DailyValues) == 0 {
		return nil, fmt.Errorf("price history %s holds no series", path)
	}

	entries, err := selectSeries(hist.DailyValues, key, path)
	if err != nil {
		return nil, err
	}

	points := make([]backtest.PricePoint, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse(backtest.DateFormat, e.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q in %s: %w", e.Date, path, err)
		}
		points = append(points, backtest.PricePoint{Date: date, Close: e.Close})
	}
	return backtest.NewPriceSeries(points)
}

func selectSeries(series map[string][]historyEntry, key, path string) ([]historyEntry, error) {
	if key != "" {
		entries, ok := series[key]
		if !ok {
			return nil, fmt.Errorf("price history %s has no series %q", path, key)
		}
		return entries, nil
	}
	if len(series) > 1 {
		return nil, fmt.Errorf("price history %s holds %d series, specify one", path, len(series))
	}
	for _, entries := range series {
		return entries, nil
	}
	return nil, fmt.Errorf("price history %s holds no series", path)
}
