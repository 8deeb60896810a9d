package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsGeneratedIDWhenEmpty(t *testing.T) {
	o := New("alice", "", Buy, Limit, 100, 5, 1)
	assert.NotEmpty(t, o.ID, "an empty id must be assigned a ulid")
	assert.Equal(t, Created, o.Status)
}

func TestNew_PreservesCallerSuppliedID(t *testing.T) {
	o := New("alice", "order-42", Buy, Limit, 100, 5, 1)
	assert.Equal(t, "order-42", o.ID)
}

func TestOrder_RemainingAndIsFilled(t *testing.T) {
	o := New("alice", "a", Buy, Limit, 100, 10, 1)
	assert.Equal(t, uint64(10), o.Remaining())
	assert.False(t, o.IsFilled())

	o.Fill(10)
	assert.Equal(t, uint64(0), o.Remaining())
	assert.True(t, o.IsFilled())
}

func TestOrder_IsResting(t *testing.T) {
	o := New("alice", "a", Buy, Limit, 100, 10, 1)
	assert.False(t, o.IsResting())

	l := NewPriceLevel(100, Buy)
	l.AddOrder(o)
	assert.True(t, o.IsResting())
}

func TestOrder_FillPanicsWhenExceedingRemaining(t *testing.T) {
	o := New("alice", "a", Buy, Limit, 100, 5, 1)
	defer func() {
		r := recover()
		require.NotNil(t, r, "filling beyond remaining quantity violates a structural invariant")
	}()
	o.Fill(6)
}
