// Text and JSON rendering of run and optimization results.
package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ============================================================================
// RUN REPORT
// ============================================================================

// RunReport renders a single backtest run as a human-readable text report.
func RunReport(strategy string, prices PriceSeries, res *RunResult, stats Stats) string {
	report := fmt.Sprintf(`
================================================================================
BACKTEST PERFORMANCE REPORT
================================================================================

OVERVIEW
--------
Strategy:         %s
Period:           %s to %s (%d days)
Trading Days:     %d

RETURNS
-------
Final Value:      %.2f
Total Return:     %.2f%%
Annual Return:    %.2f%%

RISK
----
Max Drawdown:     %.2f%%

TRADES
------
Trade Count:      %d
Win Rate:         %.2f%%
`,
		strategy,
		prices.Start().Format(DateFormat),
		prices.End().Format(DateFormat),
		prices.CalendarDays(),
		len(res.Daily),
		stats.FinalValue,
		stats.TotalReturnPct,
		stats.AnnualReturnPct,
		stats.MaxDrawdownPct,
		stats.TradeCount,
		stats.WinRatePct,
	)

	var b strings.Builder
	b.WriteString(report)
	if len(res.Trades) > 0 {
		b.WriteString("\nTRADE LOG\n---------\n")
		for _, t := range res.Trades {
			b.WriteString(fmt.Sprintf("%s  %-4s  price=%.2f  shares=%.2f  amount=%.2f  indicator=%.2f\n",
				t.Date.Format(DateFormat), t.Action, t.Price, t.Shares, t.Amount, t.Indicator.Or(0)))
		}
	}
	b.WriteString("================================================================================\n")
	return b.String()
}

// ============================================================================
// OPTIMIZATION REPORT
// ============================================================================

// SummaryReport renders an optimization summary: the baseline, the best
// candidate under each ranking metric, and the top candidates under the
// primary metric.
func SummaryReport(s *Summary, primary Metric, tableRows int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "OPTIMIZATION SUMMARY  strategy=%s method=%s run=%s\n", s.Strategy, s.Method, s.RunID)
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "Evaluated:  %d candidates in %s\n", s.Evaluated, s.Duration)

	if s.Baseline != nil {
		b.WriteString("\nBASELINE\n--------\n")
		writeResult(&b, s.Baseline)
	}

	bests := []struct {
		label string
		r     *Result
	}{
		{"BEST BY TOTAL RETURN", s.BestByTotalReturn},
		{"BEST BY ANNUAL RETURN", s.BestByAnnual},
		{"BEST BY RISK-ADJUSTED RETURN", s.BestByRiskAdj},
	}
	for _, best := range bests {
		if best.r == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n%s\n", best.label, strings.Repeat("-", len(best.label)))
		writeResult(&b, best.r)
	}

	if len(s.Top) > 0 {
		rows := tableRows
		if rows <= 0 || rows > len(s.Top) {
			rows = len(s.Top)
		}
		fmt.Fprintf(&b, "\nTOP %d BY %s\n", rows, strings.ToUpper(string(primary)))
		fmt.Fprintf(&b, "%-4s %-40s %12s %12s %10s\n", "#", "params", "total%", "annual%", "maxDD%")
		for i := 0; i < rows; i++ {
			r := s.Top[i]
			fmt.Fprintf(&b, "%-4d %-40s %12.2f %12.2f %10.2f\n",
				i+1, formatParams(r.Params), r.Stats.TotalReturnPct, r.Stats.AnnualReturnPct, r.Stats.MaxDrawdownPct)
		}
	}

	b.WriteString(strings.Repeat("=", 80) + "\n")
	return b.String()
}

func writeResult(b *strings.Builder, r *Result) {
	fmt.Fprintf(b, "Params:           %s\n", formatParams(r.Params))
	fmt.Fprintf(b, "Total Return:     %.2f%%\n", r.Stats.TotalReturnPct)
	fmt.Fprintf(b, "Annual Return:    %.2f%%\n", r.Stats.AnnualReturnPct)
	fmt.Fprintf(b, "Max Drawdown:     %.2f%%\n", r.Stats.MaxDrawdownPct)
	fmt.Fprintf(b, "Win Rate:         %.2f%%\n", r.Stats.WinRatePct)
	fmt.Fprintf(b, "Trade Count:      %d\n", r.Stats.TradeCount)
}

func formatParams(ps ParameterSet) string {
	keys := make([]string, 0, len(ps))
	for k := range ps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ps[k]))
	}
	return strings.Join(parts, ", ")
}

// WriteSummaryJSON writes the summary as an indented JSON artifact.
func WriteSummaryJSON(path string, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
