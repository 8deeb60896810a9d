// Package snapshot defines the persisted view of an order book at a point
// in time, and the Store interface a periodic snapshot ticker writes it
// through. Persistence itself is an external collaborator (see
// usecase/snapshotstore for the Redis-backed implementation); this package
// only defines the shape of the data and the seam.
package snapshot

import "context"

// BookOrder is one resting order as captured in a Snapshot. It carries
// enough to reconstruct the order's position in its price level's FIFO on
// restore (Timestamp preserves admission order).
type BookOrder struct {
	OrderID   string  `json:"orderID"`
	UserID    string  `json:"userID"`
	Side      uint8   `json:"side"`
	Price     float64 `json:"price"`
	Original  uint64  `json:"original"`
	Filled    uint64  `json:"filled"`
	Timestamp int64   `json:"timestamp"`
}

// Snapshot is the full resting-order state of the book at the moment it was
// taken, plus the number of trades executed so far and the submission
// offset. On restore the engine reads back the orders and SubmitOffset;
// TradeSequence is recorded but not read back.
type Snapshot struct {
	Orders        []BookOrder `json:"orders"`
	TradeSequence int64       `json:"tradeSequence"`
	SubmitOffset  int64       `json:"submitOffset"`
	Timestamp     int64       `json:"timestamp"`
}

// Store persists and retrieves Snapshot values keyed by trading pair. A
// missing snapshot is reported as (nil, nil), not an error, matching the
// "nothing to restore yet" case on first startup.
type Store interface {
	Store(ctx context.Context, pair string, snap *Snapshot) error
	Load(ctx context.Context, pair string) (*Snapshot, error)
}
