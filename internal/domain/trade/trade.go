// Package trade defines the event emitted to market-data consumers for each
// execution, and the publisher interface the matching engine fans out to.
package trade

import "sync"

// Event is the value handed to a TradePublisher: a snapshot copy of one
// execution with no back-references into engine state. Consumers must not
// mutate it and cannot use it to call back into the engine.
type Event struct {
	UserID      string
	BuyOrderID  string
	SellOrderID string
	Price       float64
	Quantity    uint64
	Timestamp   int64
	MakerFee    float64
	TakerFee    float64
}

// Publisher receives trade events in execution order, synchronously within
// the dispatch that produced them. Implementations MUST NOT call back into
// the engine, and a failing Publish MUST NOT be allowed to abort a match
// already in progress — the engine isolates the call (see
// InMemoryPublisher for the simplest case, and usecase/matchpublisher for
// the Kafka-backed adapter that actually isolates failures by logging and
// continuing).
type Publisher interface {
	Publish(e Event)
}

// InMemoryPublisher accumulates every published event in memory, in
// publish order. It never fails, which makes it the default publisher for
// tests and for callers that only want the engine's internal trade log.
type InMemoryPublisher struct {
	mu     sync.Mutex
	Events []Event
}

// NewInMemoryPublisher returns an empty InMemoryPublisher.
func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

// Publish appends e to Events.
func (p *InMemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
}

// All returns a copy of the events published so far.
func (p *InMemoryPublisher) All() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.Events))
	copy(out, p.Events)
	return out
}
