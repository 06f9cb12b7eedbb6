package marketdata

import (
	"math"
	"math/rand"

	"etfquant/pkg/backtest"
)

// Synthetic series stand in for data the price file does not carry. Both
// providers are fully deterministic: the volume provider is driven by a fixed
// seed and the ERP provider is a pure function of the series length. The
// series are approximations for strategy research, not reconstructions of the
// real market data.

// ============================================================================
// SYNTHETIC VOLUME
// ============================================================================

// SyntheticVolume generates a pseudo-random volume series coupled to price
// movement: days with larger absolute returns get proportionally more volume,
// floored at half the base level.
type SyntheticVolume struct {
	Seed int64
	Base float64
}

// DefaultVolumeSeed matches the reference data generation.
const DefaultVolumeSeed = 42

// NewSyntheticVolume builds the default provider: seed 42, base 1e6 shares.
func NewSyntheticVolume() *SyntheticVolume {
	return &SyntheticVolume{Seed: DefaultVolumeSeed, Base: 1e6}
}

func (p *SyntheticVolume) Volume(prices backtest.PriceSeries) []float64 {
	rng := rand.New(rand.NewSource(p.Seed))
	closes := prices.Closes()
	out := make([]float64, len(closes))
	for i := range closes {
		move := 0.0
		if i > 0 && closes[i-1] > 0 {
			move = math.Abs(closes[i]-closes[i-1]) / closes[i-1]
		}
		// Volume rises with the day's move, plus ±30% noise.
		v := p.Base * (1 + 20*move) * (0.7 + 0.6*rng.Float64())
		if floor := p.Base * 0.5; v < floor {
			v = floor
		}
		out[i] = v
	}
	return out
}

// ============================================================================
// SYNTHETIC EQUITY RISK PREMIUM
// ============================================================================

// SyntheticERP models the equity risk premium as a dividend yield drifting up
// against a government bond yield drifting down, each with a slow sinusoidal
// cycle. The spread trends positive over the series, which is what the
// risk-premium strategy traded on in the reference data.
type SyntheticERP struct{}

func (SyntheticERP) ERP(prices backtest.PriceSeries) []float64 {
	n := len(prices)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		dy := 3.2 + 0.8*t + 0.6*math.Sin(2*math.Pi*float64(i)/400)
		bond := 3.2 - 0.9*t + 0.5*math.Sin(2*math.Pi*float64(i)/350+math.Pi)
		out[i] = dy - bond
	}
	return out
}
