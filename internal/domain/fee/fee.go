// Package fee implements the tiered maker/taker fee schedule. Per-user
// rolling notional accumulates across trades and promotes the user through
// a static, ascending tier table; promotion is monotonic, never reversed.
package fee

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sablefin/matchcore/pkg/logger"
)

// Tier is one row of the static fee schedule: a user whose rolling notional
// has reached MinNotional pays MakerRate/TakerRate until promoted further.
// MakerRate may be negative (a rebate); TakerRate is non-negative.
type Tier struct {
	MinNotional decimal.Decimal
	MakerRate   decimal.Decimal
	TakerRate   decimal.Decimal
}

// DefaultSchedule is the initial three-tier table.
func DefaultSchedule() []Tier {
	return []Tier{
		{
			MinNotional: decimal.Zero,
			MakerRate:   decimal.Zero,
			TakerRate:   decimal.NewFromFloat(0.0005),
		},
		{
			MinNotional: decimal.NewFromInt(100_000),
			MakerRate:   decimal.NewFromFloat(-0.0001),
			TakerRate:   decimal.NewFromFloat(0.0004),
		},
		{
			MinNotional: decimal.NewFromInt(1_000_000),
			MakerRate:   decimal.NewFromFloat(-0.0002),
			TakerRate:   decimal.NewFromFloat(0.0003),
		},
	}
}

// account is the per-user rolling state: cumulative notional traded and the
// highest tier index reached so far.
type account struct {
	rollingVolume decimal.Decimal
	tierIndex     int
}

// Calculator computes maker/taker fees against a static tier schedule,
// tracking each user's rolling notional and current tier. Fees are keyed by
// user id, not order id: a single user trading through multiple orders
// accumulates volume and promotes tiers as one entity.
type Calculator struct {
	mu       sync.Mutex
	schedule []Tier
	accounts map[string]*account
	trace    *logger.Logger
}

// NewCalculator builds a Calculator against schedule. schedule must be
// sorted ascending by MinNotional with a zero-threshold tier 0; Default
// Schedule satisfies this.
func NewCalculator(schedule []Tier) *Calculator {
	return &Calculator{
		schedule: schedule,
		accounts: make(map[string]*account),
	}
}

// EnableTrace turns on tier-promotion logging against log. Off by default;
// cmd/matchengine wires this to the FEE_SCHEDULE_TRACE config flag, since a
// busy pair's promotions are too frequent to log unconditionally.
func (c *Calculator) EnableTrace(log *logger.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = log
}

func (c *Calculator) acquire(userID string) *account {
	a, ok := c.accounts[userID]
	if !ok {
		a = &account{rollingVolume: decimal.Zero, tierIndex: 0}
		c.accounts[userID] = a
	}
	return a
}

// UpdateVolume adds notional to userID's rolling volume and promotes the
// user's tier as far as the schedule allows. It never demotes: tierIndex is
// monotonically non-decreasing for the account's lifetime.
func (c *Calculator) UpdateVolume(userID string, notional decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := c.acquire(userID)
	a.rollingVolume = a.rollingVolume.Add(notional)

	before := a.tierIndex
	for a.tierIndex+1 < len(c.schedule) && a.rollingVolume.GreaterThanOrEqual(c.schedule[a.tierIndex+1].MinNotional) {
		a.tierIndex++
	}

	if c.trace != nil && a.tierIndex != before {
		c.trace.Info("fee tier promoted",
			logger.Field{Key: "userID", Value: userID},
			logger.Field{Key: "fromTier", Value: before},
			logger.Field{Key: "toTier", Value: a.tierIndex},
			logger.Field{Key: "rollingVolume", Value: a.rollingVolume.String()},
		)
	}
}

// TierFor returns the tier index currently in effect for userID. An
// unobserved user is at tier 0.
func (c *Calculator) TierFor(userID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.accounts[userID]
	if !ok {
		return 0
	}
	return a.tierIndex
}

// MakerFee returns the fee owed (or rebated, if negative) by userID acting
// as maker on a fill of qty at price, at the user's current tier.
func (c *Calculator) MakerFee(userID string, price float64, qty uint64) decimal.Decimal {
	return c.feeAt(userID, price, qty, func(t Tier) decimal.Decimal { return t.MakerRate })
}

// TakerFee returns the fee owed by userID acting as taker on a fill of qty
// at price, at the user's current tier.
func (c *Calculator) TakerFee(userID string, price float64, qty uint64) decimal.Decimal {
	return c.feeAt(userID, price, qty, func(t Tier) decimal.Decimal { return t.TakerRate })
}

func (c *Calculator) feeAt(userID string, price float64, qty uint64, rate func(Tier) decimal.Decimal) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := c.acquire(userID)
	tier := c.schedule[a.tierIndex]
	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
	return notional.Mul(rate(tier))
}
