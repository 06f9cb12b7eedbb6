package backtest

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"etfquant/internal/indicators"
)

// ============================================================================
// TYPES
// ============================================================================

// Position is the account's market exposure state.
type Position int

const (
	// Flat means the account holds no shares.
	Flat Position = iota
	// Long means the account holds shares.
	Long
)

func (p Position) String() string {
	if p == Long {
		return "LONG"
	}
	return "FLAT"
}

// LotPolicy controls how order sizes are computed.
type LotPolicy int

const (
	// RoundLot trades in multiples of 100 shares. Buys that cannot afford a
	// full lot are skipped; sells liquidate the sub-lot residue as well.
	RoundLot LotPolicy = iota
	// Fractional allocates the full cash balance on buys and liquidates the
	// full share balance on sells, with no lot constraint.
	Fractional
)

// LotSize is the round-lot unit in shares.
const LotSize = 100

// Trade actions as recorded in run artifacts.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Trade records one executed order.
type Trade struct {
	Date      time.Time        `json:"date"`
	Action    string           `json:"action"`
	Price     float64          `json:"price"`
	Shares    float64          `json:"shares"`
	Amount    float64          `json:"amount"`
	Indicator indicators.Value `json:"indicator"`
}

// DailyValuation is the end-of-day account snapshot. One is recorded for every
// day of the series, warm-up days included.
type DailyValuation struct {
	Date       time.Time `json:"date"`
	Close      float64   `json:"close"`
	Cash       float64   `json:"cash"`
	Shares     float64   `json:"shares"`
	TotalValue float64   `json:"total_value"`
	ReturnPct  float64   `json:"return_pct"`
}

// Account is the mutable simulation state.
type Account struct {
	Cash     float64
	Shares   float64
	Position Position
}

// Value returns cash plus the market value of holdings at price.
func (a *Account) Value(price float64) float64 {
	return a.Cash + a.Shares*price
}

// SimConfig parameterizes a simulation run.
type SimConfig struct {
	InitialCapital float64
	Lot            LotPolicy
}

// RunResult holds everything a single simulation produced.
type RunResult struct {
	Trades []Trade          `json:"trades"`
	Daily  []DailyValuation `json:"daily_values"`
	Final  Account          `json:"-"`
}

// ============================================================================
// SIMULATOR
// ============================================================================

// Simulator replays a signal rule against a price series day by day. It holds
// no per-run state and is safe to share across concurrent runs.
type Simulator struct {
	cfg    SimConfig
	logger zerolog.Logger
}

// NewSimulator builds a simulator. A zero InitialCapital defaults to 100000.
func NewSimulator(cfg SimConfig, logger zerolog.Logger) *Simulator {
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 100000
	}
	return &Simulator{cfg: cfg, logger: logger}
}

// Run executes rule against prices from the first day to the last. Execution
// model: at most one order per day at that day's close, buy takes precedence
// while flat, and a valuation snapshot is appended for every day regardless of
// whether a trade fired.
func (s *Simulator) Run(prices PriceSeries, rule SignalRule) *RunResult {
	acct := Account{Cash: s.cfg.InitialCapital, Position: Flat}
	res := &RunResult{
		Trades: make([]Trade, 0, 16),
		Daily:  make([]DailyValuation, 0, len(prices)),
	}

	for i := range prices {
		pt := prices[i]
		buy, sell := rule.Evaluate(i)

		switch {
		case buy && acct.Position == Flat:
			if t, ok := s.executeBuy(&acct, pt, rule.Indicator(i)); ok {
				res.Trades = append(res.Trades, t)
			}
		case sell && acct.Position == Long:
			t := s.executeSell(&acct, pt, rule.Indicator(i))
			res.Trades = append(res.Trades, t)
		}

		total := acct.Value(pt.Close)
		res.Daily = append(res.Daily, DailyValuation{
			Date:       pt.Date,
			Close:      pt.Close,
			Cash:       acct.Cash,
			Shares:     acct.Shares,
			TotalValue: total,
			ReturnPct:  (total - s.cfg.InitialCapital) / s.cfg.InitialCapital * 100,
		})
	}

	res.Final = acct
	return res
}

// executeBuy converts the full cash balance into shares. Under the round-lot
// policy the order is floored to whole lots and skipped entirely when cash
// cannot afford a single lot.
func (s *Simulator) executeBuy(acct *Account, pt PricePoint, ind indicators.Value) (Trade, bool) {
	var shares, amount float64
	switch s.cfg.Lot {
	case RoundLot:
		lots := math.Floor(acct.Cash / pt.Close / LotSize)
		if lots < 1 {
			s.logger.Debug().
				Time("date", pt.Date).
				Float64("cash", acct.Cash).
				Float64("price", pt.Close).
				Msg("buy signal skipped, cash below one lot")
			return Trade{}, false
		}
		shares = lots * LotSize
		amount = shares * pt.Close
		acct.Cash -= amount
	default:
		// Full allocation spends the whole balance. Recomputing the amount as
		// shares*price leaves a float residue in cash, so the balance itself
		// is the trade amount and cash is zeroed outright.
		shares = acct.Cash / pt.Close
		amount = acct.Cash
		acct.Cash = 0
	}

	acct.Shares += shares
	acct.Position = Long

	s.logger.Debug().
		Time("date", pt.Date).
		Float64("price", pt.Close).
		Float64("shares", shares).
		Msg("buy executed")

	return Trade{
		Date:      pt.Date,
		Action:    ActionBuy,
		Price:     pt.Close,
		Shares:    shares,
		Amount:    amount,
		Indicator: ind,
	}, true
}

// executeSell liquidates the position. The round-lot policy still sells whole
// lots first, but any sub-lot residue goes out in the same trade, so every
// sell returns the account to exactly flat.
func (s *Simulator) executeSell(acct *Account, pt PricePoint, ind indicators.Value) Trade {
	shares := acct.Shares
	amount := shares * pt.Close
	acct.Cash += amount
	acct.Shares -= shares
	acct.Position = Flat

	s.logger.Debug().
		Time("date", pt.Date).
		Float64("price", pt.Close).
		Float64("shares", shares).
		Msg("sell executed")

	return Trade{
		Date:      pt.Date,
		Action:    ActionSell,
		Price:     pt.Close,
		Shares:    shares,
		Amount:    amount,
		Indicator: ind,
	}
}
