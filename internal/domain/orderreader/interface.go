// Package orderreader defines the submission feed the engine consumes from.
// The transport behind it is an external collaborator (see
// usecase/orderreader for the Kafka-backed implementation); the core engine
// only depends on this interface.
package orderreader

import (
	"context"

	"github.com/sablefin/matchcore/internal/domain/orderbook"
)

// Request is one inbound order submission as read off the feed, before it
// has been admitted into the engine (no timestamp or Status yet — the engine
// assigns those when it builds the Order with orderbook.New; Prev/Next/Level
// are set only if the order comes to rest on a price level).
type Request struct {
	UserID string
	ID     string
	Side   orderbook.Side
	Type   orderbook.Type
	Price  float64
	Qty    uint64
}

// Reader reads order submissions one at a time and acknowledges them once
// the engine has processed them, so a crash mid-batch replays from the last
// committed offset rather than silently dropping submissions.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreader_mock
type Reader interface {
	// ReadRequest blocks until the next submission is available.
	ReadRequest(ctx context.Context) (Request, error)
	// Commit acknowledges that every request read up to and including the
	// last one returned by ReadRequest has been durably processed.
	Commit(ctx context.Context) error
	// Close releases the underlying transport.
	Close() error
}
