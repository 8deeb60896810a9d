package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/matchcore/pkg/logger"
)

func TestCalculator_TierPromotionIsMonotonic(t *testing.T) {
	c := NewCalculator(DefaultSchedule())

	assert.Equal(t, 0, c.TierFor("alice"))

	c.UpdateVolume("alice", decimal.NewFromInt(99_999))
	assert.Equal(t, 0, c.TierFor("alice"), "just under tier 1 threshold")

	c.UpdateVolume("alice", decimal.NewFromInt(2))
	assert.Equal(t, 1, c.TierFor("alice"), "crossed tier 1 threshold")

	c.UpdateVolume("alice", decimal.NewFromInt(2_000_000))
	assert.Equal(t, 2, c.TierFor("alice"), "crossed tier 2 threshold")
}

func TestCalculator_NeverDemotes(t *testing.T) {
	c := NewCalculator(DefaultSchedule())

	c.UpdateVolume("bob", decimal.NewFromInt(1_000_000))
	require.Equal(t, 2, c.TierFor("bob"))

	c.UpdateVolume("bob", decimal.Zero)
	assert.Equal(t, 2, c.TierFor("bob"), "zero-notional update must not reduce tier")
}

func TestCalculator_MakerRebateIsNegative(t *testing.T) {
	c := NewCalculator(DefaultSchedule())
	c.UpdateVolume("carol", decimal.NewFromInt(100_000))

	fee := c.MakerFee("carol", 100, 10)
	assert.True(t, fee.IsNegative(), "tier 1 maker fee should be a rebate")
	assert.True(t, fee.Equal(decimal.NewFromFloat(-0.1)), "expected -0.0001 * 100 * 10 = -0.1, got %s", fee)
}

func TestCalculator_TakerFeeIsNonNegative(t *testing.T) {
	c := NewCalculator(DefaultSchedule())

	fee := c.TakerFee("dave", 100, 10)
	assert.True(t, fee.Equal(decimal.NewFromFloat(0.5)), "expected 0.0005 * 100 * 10 = 0.5, got %s", fee)
}

func TestCalculator_AccountsAreIndependent(t *testing.T) {
	c := NewCalculator(DefaultSchedule())

	c.UpdateVolume("eve", decimal.NewFromInt(1_000_000))
	assert.Equal(t, 2, c.TierFor("eve"))
	assert.Equal(t, 0, c.TierFor("frank"), "unrelated user must stay at tier 0")
}

func TestCalculator_TraceDoesNotAlterPromotion(t *testing.T) {
	c := NewCalculator(DefaultSchedule())
	log, err := logger.NewLogger()
	require.NoError(t, err)
	c.EnableTrace(log)

	c.UpdateVolume("grace", decimal.NewFromInt(1_000_000))
	assert.Equal(t, 2, c.TierFor("grace"), "enabling trace must not change tier math")
}
