package orderbook

import (
	"github.com/oklog/ulid/v2"

	"github.com/sablefin/matchcore/internal/invariant"
)

// Order is a single submitted order. It doubles as the intrusive FIFO node
// for its PriceLevel: Prev/Next link it to its neighbors at the same price,
// and Level is a non-owning back-reference set exactly while the order is
// resting. An order is resting iff Level != nil; only Limit orders may ever
// rest.
//
// Invariants (enforced by PriceLevel.AddOrder/RemoveOrder and OrderBook, not
// by Order itself): Filled <= Original; Level == nil for non-Limit orders at
// rest; Timestamp is immutable once assigned and defines FIFO priority among
// orders sharing a price.
type Order struct {
	UserID   string
	ID       string
	Side     Side
	Type     Type
	Price    float64
	Original uint64
	Filled   uint64

	Prev  *Order
	Next  *Order
	Level *PriceLevel

	Timestamp int64
	Status    Status
}

// New constructs an Order in the Created state. If id is empty a ULID is
// generated — spec treats the order id as caller-supplied, but an empty id
// is a common shorthand for "assign one for me", mirrored on the teacher's
// NewOrder(userID, size, bid) which always generates a ULID.
func New(userID, id string, side Side, typ Type, price float64, qty uint64, timestamp int64) *Order {
	invariant.Check(qty > 0, "order quantity must be positive")
	invariant.Check(typ == Market || price > 0, "limit price must be positive for non-market orders")

	if id == "" {
		id = ulid.Make().String()
	}

	return &Order{
		UserID:    userID,
		ID:        id,
		Side:      side,
		Type:      typ,
		Price:     price,
		Original:  qty,
		Timestamp: timestamp,
		Status:    Created,
	}
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() uint64 {
	return o.Original - o.Filled
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Remaining() == 0
}

// IsResting reports whether the order currently owns a PriceLevel slot.
func (o *Order) IsResting() bool {
	return o.Level != nil
}

// Fill increases Filled by qty. qty must not exceed the remaining quantity;
// violating that is a programmer error (the matching loop always computes
// qty as min(taker.Remaining(), maker.Remaining())).
func (o *Order) Fill(qty uint64) {
	invariant.Check(qty <= o.Remaining(), "fill quantity exceeds remaining quantity")
	o.Filled += qty
}
