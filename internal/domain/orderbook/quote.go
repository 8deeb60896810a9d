package orderbook

// BBO is the best bid/offer snapshot of the book at a point in time. A zero
// BestBidPrice/BestAskPrice with BidSize/AskSize of zero means that side is
// empty.
type BBO struct {
	BestBidPrice float64
	BidSize      uint64
	BestAskPrice float64
	AskSize      uint64
	Timestamp    int64
}

// PriceLevelView is one aggregated row of an L2Snapshot: a price and the
// total resting quantity across every order at that price. It does not
// expose individual orders, only the aggregate the depth-of-book feed cares
// about.
type PriceLevelView struct {
	Price    float64
	Quantity uint64
}

// L2Snapshot is a depth-limited view of both ladders, bids sorted best
// (highest) first and asks sorted best (lowest) first.
type L2Snapshot struct {
	Bids      []PriceLevelView
	Asks      []PriceLevelView
	Timestamp int64
}
