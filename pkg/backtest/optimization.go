package backtest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// PARAMETERS
// ============================================================================

// ParameterType distinguishes integer and float search dimensions.
type ParameterType string

const (
	ParameterInt   ParameterType = "int"
	ParameterFloat ParameterType = "float"
)

// Parameter describes one search dimension with an inclusive [Min, Max] range
// stepped by Step.
type Parameter struct {
	Name string        `json:"name"`
	Type ParameterType `json:"type"`
	Min  float64       `json:"min"`
	Max  float64       `json:"max"`
	Step float64       `json:"step"`
}

// values enumerates the dimension's grid points.
func (p Parameter) values() []interface{} {
	step := p.Step
	if step <= 0 {
		step = 1
	}
	var out []interface{}
	// Half-step tolerance keeps Max inclusive despite float accumulation.
	for v := p.Min; v <= p.Max+step/2; v += step {
		out = append(out, p.value(v))
	}
	return out
}

// sample draws one uniform grid point.
func (p Parameter) sample(rng *rand.Rand) interface{} {
	step := p.Step
	if step <= 0 {
		step = 1
	}
	n := int(math.Floor((p.Max-p.Min)/step)) + 1
	return p.value(p.Min + float64(rng.Intn(n))*step)
}

func (p Parameter) value(v float64) interface{} {
	if p.Type == ParameterInt {
		return int(math.Round(v))
	}
	return v
}

// ParameterSet is one concrete assignment of values to parameter names.
type ParameterSet map[string]interface{}

// Int returns the named parameter as an int, tolerating float storage from
// config decoding.
func (ps ParameterSet) Int(name string) int {
	switch v := ps[name].(type) {
	case int:
		return v
	case float64:
		return int(math.Round(v))
	}
	return 0
}

// Float returns the named parameter as a float64.
func (ps ParameterSet) Float(name string) float64 {
	switch v := ps[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Clone returns a shallow copy.
func (ps ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}

// ============================================================================
// OPTIMIZER
// ============================================================================

// RuleFactory builds a signal rule from one parameter assignment. Factories
// run concurrently and must not share mutable state through the rules they
// return.
type RuleFactory func(ParameterSet) (SignalRule, error)

// Validator rejects parameter assignments that are structurally invalid, such
// as a buy threshold at or above the sell threshold. Invalid candidates are
// never simulated: grid search drops them from the enumeration, while random
// search counts the rejected draw against its iteration budget.
type Validator func(ParameterSet) error

// Result is one evaluated candidate. Trades and Daily are populated only for
// the baseline and the best-by-metric results; top-K entries carry stats only,
// a full grid's detail would dwarf the artifact.
type Result struct {
	Params ParameterSet     `json:"params"`
	Stats  Stats            `json:"stats"`
	Trades []Trade          `json:"trades,omitempty"`
	Daily  []DailyValuation `json:"daily_values,omitempty"`

	index int
}

// Summary is the full output of one optimization run.
type Summary struct {
	RunID             string      `json:"run_id"`
	Strategy          string      `json:"strategy"`
	Method            string      `json:"method"`
	GeneratedAt       time.Time   `json:"generated_at"`
	Duration          string      `json:"duration"`
	Evaluated         int         `json:"evaluated"`
	ParameterRanges   []Parameter `json:"parameter_ranges"`
	Baseline          *Result     `json:"baseline,omitempty"`
	BestByTotalReturn *Result     `json:"best_by_total_return,omitempty"`
	BestByAnnual      *Result     `json:"best_by_annual_return,omitempty"`
	BestByRiskAdj     *Result     `json:"best_by_risk_adjusted,omitempty"`
	Top               []*Result   `json:"top"`
}

// DefaultTopK is how many candidates a summary retains, ranked by the primary
// metric.
const DefaultTopK = 30

// progressEvery is the candidate interval between progress log lines.
const progressEvery = 500

// OptimizerConfig parameterizes a search.
type OptimizerConfig struct {
	Strategy   string
	Params     []Parameter
	Factory    RuleFactory
	Validate   Validator
	Sim        SimConfig
	Metric     Metric
	TopK       int
	Workers    int
	Iterations int
	Seed       int64
	Baseline   ParameterSet
}

// Optimizer evaluates parameter assignments against a fixed price series and
// ranks them. Grid search enumerates the full Cartesian product; random search
// draws a fixed budget of uniform samples.
type Optimizer struct {
	cfg    OptimizerConfig
	prices PriceSeries
	logger zerolog.Logger
}

// NewOptimizer builds an optimizer. Zero-value config fields get sensible
// defaults: TopK 30, Workers NumCPU, Iterations 3000, primary metric total
// return.
func NewOptimizer(cfg OptimizerConfig, prices PriceSeries, logger zerolog.Logger) (*Optimizer, error) {
	if cfg.Factory == nil {
		return nil, fmt.Errorf("optimizer: rule factory is required")
	}
	if len(cfg.Params) == 0 {
		return nil, fmt.Errorf("optimizer: no parameters to search")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 3000
	}
	if cfg.Metric == "" {
		cfg.Metric = MetricTotalReturn
	}
	return &Optimizer{cfg: cfg, prices: prices, logger: logger}, nil
}

// GridSearch evaluates every valid point of the parameter grid.
func (o *Optimizer) GridSearch(ctx context.Context) (*Summary, error) {
	candidates := o.enumerate()
	o.logger.Info().
		Str("strategy", o.cfg.Strategy).
		Int("candidates", len(candidates)).
		Msg("grid search started")
	return o.run(ctx, "grid", candidates)
}

// RandomSearch evaluates Iterations uniform samples from the grid. Samples
// failing validation still consume budget, and duplicates are possible; only
// the baseline, when configured, is evaluated outside the budget.
func (o *Optimizer) RandomSearch(ctx context.Context) (*Summary, error) {
	rng := rand.New(rand.NewSource(o.cfg.Seed))
	candidates := make([]ParameterSet, 0, o.cfg.Iterations)
	for i := 0; i < o.cfg.Iterations; i++ {
		ps := make(ParameterSet, len(o.cfg.Params))
		for _, p := range o.cfg.Params {
			ps[p.Name] = p.sample(rng)
		}
		if o.valid(ps) {
			candidates = append(candidates, ps)
		}
	}
	o.logger.Info().
		Str("strategy", o.cfg.Strategy).
		Int("iterations", o.cfg.Iterations).
		Int("valid", len(candidates)).
		Int64("seed", o.cfg.Seed).
		Msg("random search started")
	return o.run(ctx, "random", candidates)
}

// enumerate builds the Cartesian product of all parameter grids, dropping
// assignments the validator rejects.
func (o *Optimizer) enumerate() []ParameterSet {
	sets := []ParameterSet{{}}
	for _, p := range o.cfg.Params {
		vals := p.values()
		next := make([]ParameterSet, 0, len(sets)*len(vals))
		for _, base := range sets {
			for _, v := range vals {
				ps := base.Clone()
				ps[p.Name] = v
				next = append(next, ps)
			}
		}
		sets = next
	}

	out := sets[:0]
	for _, ps := range sets {
		if o.valid(ps) {
			out = append(out, ps)
		}
	}
	return out
}

func (o *Optimizer) valid(ps ParameterSet) bool {
	if o.cfg.Validate == nil {
		return true
	}
	if err := o.cfg.Validate(ps); err != nil {
		return false
	}
	return true
}

// run fans candidate evaluation out across workers and assembles the summary.
// Results keep their candidate index so ranking ties break deterministically
// regardless of completion order.
func (o *Optimizer) run(ctx context.Context, method string, candidates []ParameterSet) (*Summary, error) {
	start := time.Now()
	results := make([]*Result, len(candidates))

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, ps := range candidates {
		i, ps := i, ps
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := o.evaluate(ps)
			if err != nil {
				return fmt.Errorf("candidate %v: %w", ps, err)
			}
			r.index = i
			results[i] = r
			if n := done.Add(1); n%progressEvery == 0 {
				o.logger.Info().
					Int64("evaluated", n).
					Int("total", len(candidates)).
					Msg("search progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:           uuid.NewString(),
		Strategy:        o.cfg.Strategy,
		Method:          method,
		GeneratedAt:     time.Now().UTC(),
		Evaluated:       len(results),
		ParameterRanges: o.cfg.Params,
	}

	if o.cfg.Baseline != nil {
		base, err := o.evaluateDetailed(o.cfg.Baseline)
		if err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
		summary.Baseline = base
	}

	var err error
	if summary.BestByTotalReturn, err = o.detail(best(results, MetricTotalReturn)); err != nil {
		return nil, err
	}
	if summary.BestByAnnual, err = o.detail(best(results, MetricAnnualReturn)); err != nil {
		return nil, err
	}
	if summary.BestByRiskAdj, err = o.detail(best(results, MetricRiskAdjusted)); err != nil {
		return nil, err
	}
	summary.Top = topK(results, o.cfg.Metric, o.cfg.TopK)
	summary.Duration = time.Since(start).Round(time.Millisecond).String()

	o.logger.Info().
		Str("run_id", summary.RunID).
		Str("method", method).
		Int("evaluated", summary.Evaluated).
		Str("duration", summary.Duration).
		Msg("search finished")
	return summary, nil
}

// evaluate simulates one candidate and keeps only its stats; trade and daily
// detail would make a 3000-candidate summary enormous.
func (o *Optimizer) evaluate(ps ParameterSet) (*Result, error) {
	rule, err := o.cfg.Factory(ps)
	if err != nil {
		return nil, err
	}
	sim := NewSimulator(o.cfg.Sim, o.logger)
	res := sim.Run(o.prices, rule)
	return &Result{Params: ps, Stats: ComputeStats(res)}, nil
}

// evaluateDetailed is evaluate keeping the trade log and equity curve.
func (o *Optimizer) evaluateDetailed(ps ParameterSet) (*Result, error) {
	rule, err := o.cfg.Factory(ps)
	if err != nil {
		return nil, err
	}
	sim := NewSimulator(o.cfg.Sim, o.logger)
	res := sim.Run(o.prices, rule)
	return &Result{
		Params: ps,
		Stats:  ComputeStats(res),
		Trades: res.Trades,
		Daily:  res.Daily,
	}, nil
}

// detail re-simulates a winning candidate to attach its trade and valuation
// detail. The simulator is deterministic, so this reproduces the original run
// exactly, and the slim copy in the ranked slice stays untouched.
func (o *Optimizer) detail(r *Result) (*Result, error) {
	if r == nil {
		return nil, nil
	}
	full, err := o.evaluateDetailed(r.Params)
	if err != nil {
		return nil, fmt.Errorf("detailing candidate %v: %w", r.Params, err)
	}
	full.index = r.index
	return full, nil
}

func best(results []*Result, m Metric) *Result {
	var b *Result
	for _, r := range results {
		if b == nil || m.Score(r.Stats) > m.Score(b.Stats) ||
			(m.Score(r.Stats) == m.Score(b.Stats) && r.index < b.index) {
			b = r
		}
	}
	return b
}

func topK(results []*Result, m Metric, k int) []*Result {
	sorted := make([]*Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := m.Score(sorted[i].Stats), m.Score(sorted[j].Stats)
		if si != sj {
			return si > sj
		}
		return sorted[i].index < sorted[j].index
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
