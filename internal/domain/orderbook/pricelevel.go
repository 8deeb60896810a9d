package orderbook

import "github.com/sablefin/matchcore/internal/invariant"

// PriceLevel is a FIFO queue of resting orders at a single price, on one
// side of the book. Orders are linked head-to-tail in arrival order: Head is
// the next order to trade at this price, Tail is the most recently queued
// one. Every order on the level points back to it via Order.Level, which is
// how RemoveOrder locates and unlinks a cancelled order in O(1) without a
// linear scan.
type PriceLevel struct {
	Price     float64
	Side      Side
	head      *Order
	tail      *Order
	totalQty  uint64
	numOrders int
}

// NewPriceLevel constructs an empty level at price on side.
func NewPriceLevel(price float64, side Side) *PriceLevel {
	invariant.Check(price > 0, "price level price must be positive")
	return &PriceLevel{Price: price, Side: side}
}

// Head returns the front of the FIFO queue, or nil if the level is empty.
func (l *PriceLevel) Head() *Order {
	return l.head
}

// IsEmpty reports whether the level has no resting orders.
func (l *PriceLevel) IsEmpty() bool {
	return l.numOrders == 0
}

// TotalQuantity returns the sum of remaining quantity across all orders
// resting at this level, used for L2 snapshot aggregation.
func (l *PriceLevel) TotalQuantity() uint64 {
	return l.totalQty
}

// NumOrders returns the count of orders resting at this level.
func (l *PriceLevel) NumOrders() int {
	return l.numOrders
}

// AddOrder appends o to the tail of the FIFO queue. o must not already be
// resting anywhere and must belong to this level's side and price.
func (l *PriceLevel) AddOrder(o *Order) {
	invariant.Check(o != nil, "cannot add nil order to price level")
	invariant.Check(o.Level == nil, "order is already resting on a price level")
	invariant.Check(o.Side == l.Side, "order side does not match price level side")
	invariant.Check(o.Price == l.Price, "order price does not match price level price")

	o.Prev = l.tail
	o.Next = nil
	if l.tail != nil {
		l.tail.Next = o
	} else {
		l.head = o
	}
	l.tail = o
	o.Level = l

	l.totalQty += o.Remaining()
	l.numOrders++
}

// RemoveOrder unlinks o from the FIFO queue entirely, used for cancellation
// and for evicting an order once it is fully filled. o must be resting on
// this level.
func (l *PriceLevel) RemoveOrder(o *Order) {
	invariant.Check(o != nil, "cannot remove nil order from price level")
	invariant.Check(o.Level == l, "order does not belong to this price level")

	if o.Prev != nil {
		o.Prev.Next = o.Next
	} else {
		l.head = o.Next
	}
	if o.Next != nil {
		o.Next.Prev = o.Prev
	} else {
		l.tail = o.Prev
	}

	l.totalQty -= o.Remaining()
	l.numOrders--

	o.Prev = nil
	o.Next = nil
	o.Level = nil
}

// ReduceQuantity records that o was filled for qty without removing it from
// the queue. Callers evict o via RemoveOrder separately once o.IsFilled();
// the split exists because a partial fill must preserve o's queue position
// while a full fill must not.
func (l *PriceLevel) ReduceQuantity(o *Order, qty uint64) {
	invariant.Check(o != nil, "cannot reduce quantity of nil order")
	invariant.Check(o.Level == l, "order does not belong to this price level")
	invariant.Check(qty <= o.Remaining(), "fill quantity exceeds order remaining quantity")

	o.Fill(qty)
	l.totalQty -= qty
}
