// Package strategy holds the catalogue of tradeable signal strategies. Each
// strategy is declared as a Spec: its search axes, baseline parameters, a
// validity check for parameter polarity, and a builder that turns one
// parameter assignment into a signal rule over a dataset.
package strategy

import (
	"fmt"
	"sort"

	"etfquant/internal/marketdata"
	"etfquant/pkg/backtest"
)

// Spec declares one strategy for the CLIs and the optimizer.
type Spec struct {
	// Name is the registry key used on the command line.
	Name string
	// Label is the human-readable strategy title for reports.
	Label string
	// Policy is the lot policy the strategy trades under.
	Policy backtest.LotPolicy
	// Params are the search axes for optimization.
	Params []backtest.Parameter
	// Defaults is the baseline parameter assignment.
	Defaults backtest.ParameterSet
	// Validate rejects structurally invalid assignments, nil when every grid
	// point is valid.
	Validate backtest.Validator
	// Build constructs the signal rule for one assignment.
	Build func(ds *marketdata.Dataset, ps backtest.ParameterSet) (backtest.SignalRule, error)
}

// Factory binds the spec's builder to a dataset for the optimizer.
func (s *Spec) Factory(ds *marketdata.Dataset) backtest.RuleFactory {
	return func(ps backtest.ParameterSet) (backtest.SignalRule, error) {
		return s.Build(ds, ps)
	}
}

// ============================================================================
// REGISTRY
// ============================================================================

var registry = map[string]*Spec{}

func register(s *Spec) {
	if _, dup := registry[s.Name]; dup {
		panic(fmt.Sprintf("strategy %q registered twice", s.Name))
	}
	registry[s.Name] = s
}

// Lookup returns the named strategy spec.
func Lookup(name string) (*Spec, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q, available: %v", name, Names())
	}
	return s, nil
}

// Names lists all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============================================================================
// SHARED VALIDATORS
// ============================================================================

func buyBelowSell(buyKey, sellKey string) backtest.Validator {
	return func(ps backtest.ParameterSet) error {
		if ps.Float(buyKey) >= ps.Float(sellKey) {
			return fmt.Errorf("%s (%v) must be below %s (%v)", buyKey, ps[buyKey], sellKey, ps[sellKey])
		}
		return nil
	}
}

func buyAboveSell(buyKey, sellKey string) backtest.Validator {
	return func(ps backtest.ParameterSet) error {
		if ps.Float(buyKey) <= ps.Float(sellKey) {
			return fmt.Errorf("%s (%v) must be above %s (%v)", buyKey, ps[buyKey], sellKey, ps[sellKey])
		}
		return nil
	}
}

func shortBelowLong(shortKey, longKey string) backtest.Validator {
	return func(ps backtest.ParameterSet) error {
		if ps.Int(shortKey) >= ps.Int(longKey) {
			return fmt.Errorf("%s (%v) must be below %s (%v)", shortKey, ps[shortKey], longKey, ps[longKey])
		}
		return nil
	}
}
