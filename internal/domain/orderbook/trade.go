package orderbook

// Trade is an immutable record of a single execution between a taker order
// and one resting maker order: `{user_id (taker), buy_order_id,
// sell_order_id, price, quantity, timestamp, maker_fee, taker_fee}`. Price
// is always the maker's resting price (including when the taker is a
// Market order, which has no price of its own); Quantity is the amount
// crossed in this particular match, which may be less than either order's
// remaining quantity if the counterparty side runs out first. The maker's
// user id is not carried on the record — only the taker's — matching the
// wire shape consumers receive; the engine has the maker Order in hand at
// match time for anything that needs it (fee application, logging).
type Trade struct {
	TakerUserID string
	BuyOrderID  string
	SellOrderID string
	Price       float64
	Quantity    uint64
	Timestamp   int64
	MakerFee    float64
	TakerFee    float64
}
