// Package orderbook is the book-keeping layer on top of
// internal/domain/orderbook's Order and PriceLevel: two price ladders, an
// id index, cached best-bid/ask, and the operations the matching engine
// drives a submission through (insert, cancel, best-opposite lookup,
// fill-feasibility pre-scan, and market-data snapshots).
package orderbook

import (
	"sort"

	"github.com/tidwall/btree"

	domain "github.com/sablefin/matchcore/internal/domain/orderbook"
	"github.com/sablefin/matchcore/internal/invariant"
)

// Book holds both price ladders for one trading pair. Bids are stored
// ascending by price in the underlying tree and read back-to-front (Max
// first) so the best bid is the highest price; asks are stored and read
// ascending so the best ask is the lowest price. Neither tree is re-sorted
// on read: every lookup is O(log n) via the tree itself.
type Book struct {
	bids *btree.Map[float64, *domain.PriceLevel]
	asks *btree.Map[float64, *domain.PriceLevel]

	orders map[string]*domain.Order

	bestBid *domain.PriceLevel
	bestAsk *domain.PriceLevel
}

// New returns an empty Book.
func New() *Book {
	return &Book{
		bids:   btree.NewMap[float64, *domain.PriceLevel](32),
		asks:   btree.NewMap[float64, *domain.PriceLevel](32),
		orders: make(map[string]*domain.Order),
	}
}

func (b *Book) ladder(side domain.Side) *btree.Map[float64, *domain.PriceLevel] {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

// levelFor returns the price level for (side, price), creating it if it
// does not yet exist.
func (b *Book) levelFor(side domain.Side, price float64) *domain.PriceLevel {
	ladder := b.ladder(side)
	if level, ok := ladder.Get(price); ok {
		return level
	}
	level := domain.NewPriceLevel(price, side)
	ladder.Set(price, level)
	return level
}

// InsertLimit rests o on the book. o must be a Limit order not already
// resting. Refreshes the best-bid/ask cache and the id index.
func (b *Book) InsertLimit(o *domain.Order) {
	invariant.Check(o != nil, "cannot insert nil order")
	invariant.Check(o.Type == domain.Limit, "only limit orders may rest")
	invariant.Check(!o.IsResting(), "order is already resting")

	if _, exists := b.orders[o.ID]; exists {
		invariant.Check(false, "order id already present in book index")
	}

	level := b.levelFor(o.Side, o.Price)
	level.AddOrder(o)
	b.orders[o.ID] = o

	if o.Status == domain.Created {
		o.Status = domain.Open
	}

	b.refreshBest(o.Side)
}

// CancelOrder removes the resting order with the given id. It returns false
// (and does nothing) if no such resting order exists, matching the
// idempotent not-found contract: unknown or already-terminal ids are a
// normal outcome, not an error.
func (b *Book) CancelOrder(id string) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	if o.Status.IsTerminal() {
		delete(b.orders, id)
		return false
	}

	level := o.Level
	invariant.Check(level != nil, "indexed order is not resting on any level")

	level.RemoveOrder(o)
	delete(b.orders, id)
	o.Status = domain.Cancelled

	if level.IsEmpty() {
		b.removeLevel(level)
	} else {
		b.refreshBest(level.Side)
	}

	return true
}

// removeLevel erases an emptied level from its ladder and refreshes the
// cache.
func (b *Book) removeLevel(level *domain.PriceLevel) {
	b.ladder(level.Side).Delete(level.Price)
	b.refreshBest(level.Side)
}

// refreshBest recomputes the cached best level for side from the ladder's
// extremum: highest price for bids, lowest for asks.
func (b *Book) refreshBest(side domain.Side) {
	if side == domain.Buy {
		if _, level, ok := b.bids.Max(); ok {
			b.bestBid = level
		} else {
			b.bestBid = nil
		}
		return
	}
	if _, level, ok := b.asks.Min(); ok {
		b.bestAsk = level
	} else {
		b.bestAsk = nil
	}
}

// BestBid returns the best (highest-price) bid level, or nil if the bid
// side is empty.
func (b *Book) BestBid() *domain.PriceLevel {
	return b.bestBid
}

// BestAsk returns the best (lowest-price) ask level, or nil if the ask side
// is empty.
func (b *Book) BestAsk() *domain.PriceLevel {
	return b.bestAsk
}

// BestOpposite returns the best resting level an incoming order on side
// would match against: the lowest ask for an incoming buy, the highest bid
// for an incoming sell.
func (b *Book) BestOpposite(side domain.Side) *domain.PriceLevel {
	if side.Opposite() == domain.Sell {
		return b.bestAsk
	}
	return b.bestBid
}

// EvictIfFilled removes o from its level (and prunes the level if now
// empty) once o has no remaining quantity. It is a no-op if o is not
// resting or is not yet fully filled.
func (b *Book) EvictIfFilled(o *domain.Order) {
	if !o.IsResting() || !o.IsFilled() {
		return
	}
	level := o.Level
	side := level.Side
	level.RemoveOrder(o)
	delete(b.orders, o.ID)
	o.Status = domain.Completed

	if level.IsEmpty() {
		b.removeLevel(level)
	} else {
		b.refreshBest(side)
	}
}

// Crosses reports whether an order on side at price would cross against a
// resting level priced at levelPrice: a buy crosses any ask at or below its
// price, a sell crosses any bid at or above its price. Market orders cross
// unconditionally (their effective price is unbounded in the crossing
// direction).
func Crosses(side domain.Side, price float64, isMarket bool, levelPrice float64) bool {
	if isMarket {
		return true
	}
	if side == domain.Buy {
		return price >= levelPrice
	}
	return price <= levelPrice
}

// CanFullyFill is the FOK pre-scan: it walks the opposite ladder from the
// best outward, accumulating quantity from every level that still crosses,
// and returns true the moment the running total reaches qty. It never
// mutates any state — a pure feasibility check.
func (b *Book) CanFullyFill(side domain.Side, price float64, isMarket bool, qty uint64) bool {
	var available uint64
	done := false

	scan := func(levelPrice float64, level *domain.PriceLevel) bool {
		if !Crosses(side, price, isMarket, levelPrice) {
			return false
		}
		available += level.TotalQuantity()
		if available >= qty {
			done = true
			return false
		}
		return true
	}

	if side.Opposite() == domain.Sell {
		b.asks.Scan(scan)
	} else {
		b.bids.Reverse(scan)
	}

	return done || available >= qty
}

// BBO returns the current best-bid/best-ask snapshot.
func (b *Book) BBO(timestamp int64) domain.BBO {
	var out domain.BBO
	out.Timestamp = timestamp
	if b.bestBid != nil {
		out.BestBidPrice = b.bestBid.Price
		out.BidSize = b.bestBid.TotalQuantity()
	}
	if b.bestAsk != nil {
		out.BestAskPrice = b.bestAsk.Price
		out.AskSize = b.bestAsk.TotalQuantity()
	}
	return out
}

// L2Snapshot returns up to depth aggregated levels per side, bids
// descending by price and asks ascending, the natural match order for each
// side. Empty levels never appear in a ladder so none are filtered here.
func (b *Book) L2Snapshot(depth int, timestamp int64) domain.L2Snapshot {
	snap := domain.L2Snapshot{Timestamp: timestamp}

	b.bids.Reverse(func(price float64, level *domain.PriceLevel) bool {
		if len(snap.Bids) >= depth {
			return false
		}
		snap.Bids = append(snap.Bids, domain.PriceLevelView{Price: price, Quantity: level.TotalQuantity()})
		return true
	})

	b.asks.Scan(func(price float64, level *domain.PriceLevel) bool {
		if len(snap.Asks) >= depth {
			return false
		}
		snap.Asks = append(snap.Asks, domain.PriceLevelView{Price: price, Quantity: level.TotalQuantity()})
		return true
	})

	return snap
}

// AllOrders returns every resting order across both ladders, sorted by side
// then timestamp, for snapshot persistence. It is not on any engine hot
// path.
func (b *Book) AllOrders() []*domain.Order {
	out := make([]*domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
