// Package orderbook holds the core order-book domain types: sides, order
// types, order status, the Order record and its owning PriceLevel. These are
// the leaf structures the matching engine and the usecase-level order book
// are built from.
package orderbook

// Side is which direction an order trades in.
type Side uint8

const (
	// Buy is a bid.
	Buy Side = iota
	// Sell is an ask.
	Sell
)

// String implements fmt.Stringer for log-friendly output.
func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Type is the order-type discipline under which an order is matched.
type Type uint8

const (
	// Limit orders rest on the book if not fully filled.
	Limit Type = iota
	// Market orders match unconditionally against the best opposite price
	// and never rest.
	Market
	// IOC (immediate-or-cancel) orders match what they can up to their
	// limit price, then cancel the remainder. They never rest.
	IOC
	// FOK (fill-or-kill) orders either fill completely immediately or are
	// cancelled with no partial execution and no book mutation.
	FOK
)

// String implements fmt.Stringer.
func (t Type) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case IOC:
		return "ioc"
	case FOK:
		return "fok"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of an Order. The engine and the book drive
// its transitions; Completed and Cancelled are terminal.
type Status uint8

const (
	// Created is the state of an order before it has been submitted to the
	// engine.
	Created Status = iota
	// Open is a resting limit order with no fills yet.
	Open
	// PartiallyFilled is an order (resting or not) with 0 < filled < original.
	PartiallyFilled
	// Completed is a fully filled order. Terminal.
	Completed
	// Cancelled is an order removed from the book, or a market/IOC/FOK
	// order that could not (fully) execute. Terminal.
	Cancelled
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible for this
// status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
