package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLevel_AddOrder_UpdatesCountAndQuantity(t *testing.T) {
	l := NewPriceLevel(100, Buy)
	assert.True(t, l.IsEmpty())

	a := New("alice", "a", Buy, Limit, 100, 5, 1)
	l.AddOrder(a)
	assert.Equal(t, 1, l.NumOrders())
	assert.Equal(t, uint64(5), l.TotalQuantity())
	assert.Same(t, a, l.Head(), "first order added is the head")

	b := New("bob", "b", Buy, Limit, 100, 3, 2)
	l.AddOrder(b)
	assert.Equal(t, 2, l.NumOrders())
	assert.Equal(t, uint64(8), l.TotalQuantity())
	assert.Same(t, a, l.Head(), "head does not change when appending to the tail")
}

func TestPriceLevel_RemoveOrder_UnlinksAndDecrementsCount(t *testing.T) {
	l := NewPriceLevel(100, Sell)
	a := New("alice", "a", Sell, Limit, 100, 5, 1)
	b := New("bob", "b", Sell, Limit, 100, 3, 2)
	c := New("carol", "c", Sell, Limit, 100, 7, 3)
	l.AddOrder(a)
	l.AddOrder(b)
	l.AddOrder(c)
	require.Equal(t, 3, l.NumOrders())

	l.RemoveOrder(b)
	assert.Equal(t, 2, l.NumOrders(), "order_count must track the FIFO list length")
	assert.Nil(t, b.Level, "removed order loses its level back-reference")
	assert.Same(t, c, a.Next, "removing the middle order relinks its neighbors")
	assert.Same(t, a, c.Prev)

	l.RemoveOrder(a)
	assert.Same(t, c, l.Head(), "removing the head advances it to the next order")

	l.RemoveOrder(c)
	assert.True(t, l.IsEmpty())
}

func TestPriceLevel_RemoveOrder_ReducesTotalQuantityByRemaining(t *testing.T) {
	l := NewPriceLevel(100, Buy)
	a := New("alice", "a", Buy, Limit, 100, 5, 1)
	b := New("bob", "b", Buy, Limit, 100, 3, 2)
	l.AddOrder(a)
	l.AddOrder(b)
	require.Equal(t, uint64(8), l.TotalQuantity())

	l.RemoveOrder(a)
	assert.Equal(t, uint64(3), l.TotalQuantity(), "removing a's full remaining quantity leaves only b's")
}

func TestPriceLevel_RemoveOrder_AfterFullFillIsQuantityNeutral(t *testing.T) {
	l := NewPriceLevel(100, Buy)
	a := New("alice", "a", Buy, Limit, 100, 5, 1)
	l.AddOrder(a)

	l.ReduceQuantity(a, 5)
	assert.Equal(t, uint64(0), l.TotalQuantity())
	assert.True(t, a.IsFilled())

	l.RemoveOrder(a)
	assert.Equal(t, uint64(0), l.TotalQuantity(), "a fully-filled order's eviction must not double-subtract")
}

func TestPriceLevel_ReduceQuantity_TracksPartialFill(t *testing.T) {
	l := NewPriceLevel(100, Buy)
	a := New("alice", "a", Buy, Limit, 100, 10, 1)
	l.AddOrder(a)

	l.ReduceQuantity(a, 4)
	assert.Equal(t, uint64(6), l.TotalQuantity())
	assert.Equal(t, uint64(4), a.Filled)
	assert.Equal(t, 1, l.NumOrders(), "a partial fill keeps the order resting at this level")
}
