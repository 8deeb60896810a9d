package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/matchcore/internal/domain/fee"
	domain "github.com/sablefin/matchcore/internal/domain/orderbook"
	"github.com/sablefin/matchcore/internal/domain/orderreader"
	"github.com/sablefin/matchcore/internal/domain/trade"
	"github.com/sablefin/matchcore/pkg/logger"
)

func newTestEngine(t *testing.T) (*Engine, *trade.InMemoryPublisher) {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)

	e := New("BTC-USD", fee.NewCalculator(fee.DefaultSchedule()), log)
	pub := trade.NewInMemoryPublisher()
	e.SetTradePublisher(pub)
	return e, pub
}

func restLimit(t *testing.T, e *Engine, userID string, side domain.Side, price float64, qty uint64) *domain.Order {
	t.Helper()
	o := e.Submit(context.Background(), orderreader.Request{
		UserID: userID,
		Side:   side,
		Type:   domain.Limit,
		Price:  price,
		Qty:    qty,
	})
	return o
}

func TestEngine_S1_PartialLimitSweep(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "s1", domain.Sell, 101, 5)
	restLimit(t, e, "s2", domain.Sell, 102, 5)
	restLimit(t, e, "b0", domain.Buy, 99, 5)

	b1 := e.Submit(context.Background(), orderreader.Request{UserID: "b1", Side: domain.Buy, Type: domain.Limit, Price: 101, Qty: 3})
	require.Equal(t, domain.Completed, b1.Status)

	trades := e.TradeLog()
	require.Len(t, trades, 1)
	assert.Equal(t, 101.0, trades[0].Price)
	assert.Equal(t, uint64(3), trades[0].Quantity)

	b3 := e.Submit(context.Background(), orderreader.Request{UserID: "b3", Side: domain.Buy, Type: domain.Limit, Price: 103, Qty: 6})
	require.Equal(t, domain.Completed, b3.Status)
	assert.False(t, b3.IsResting())

	trades = e.TradeLog()
	require.Len(t, trades, 3)
	assert.Equal(t, 101.0, trades[1].Price)
	assert.Equal(t, uint64(2), trades[1].Quantity)
	assert.Equal(t, 102.0, trades[2].Price)
	assert.Equal(t, uint64(4), trades[2].Quantity)

	bbo := e.BBO()
	assert.Equal(t, 102.0, bbo.BestAskPrice)
	assert.Equal(t, uint64(1), bbo.AskSize)
}

func TestEngine_S2_MarketLaddersThroughLiquidity(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "s1", domain.Sell, 101, 2)
	restLimit(t, e, "s2", domain.Sell, 102, 3)
	restLimit(t, e, "s3", domain.Sell, 103, 5)

	buy := e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.Market, Qty: 12})

	assert.Equal(t, domain.PartiallyFilled, buy.Status)
	assert.Equal(t, uint64(2), buy.Remaining())
	assert.False(t, buy.IsResting())

	trades := e.TradeLog()
	require.Len(t, trades, 3)
	assert.Equal(t, []float64{101, 102, 103}, []float64{trades[0].Price, trades[1].Price, trades[2].Price})
	assert.Equal(t, []uint64{2, 3, 5}, []uint64{trades[0].Quantity, trades[1].Quantity, trades[2].Quantity})
}

func TestEngine_S3_IOC(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "s1", domain.Sell, 101, 3)
	restLimit(t, e, "s2", domain.Sell, 103, 5)

	order := e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.IOC, Price: 102, Qty: 10})

	assert.Equal(t, domain.PartiallyFilled, order.Status)
	assert.False(t, order.IsResting())

	trades := e.TradeLog()
	require.Len(t, trades, 1)
	assert.Equal(t, 101.0, trades[0].Price)
	assert.Equal(t, uint64(3), trades[0].Quantity)

	bbo := e.BBO()
	assert.Equal(t, 103.0, bbo.BestAskPrice)
	assert.Equal(t, uint64(5), bbo.AskSize)
}

func TestEngine_S4_FOKRejected(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "s1", domain.Sell, 101, 3)
	restLimit(t, e, "s2", domain.Sell, 102, 2)

	before := e.L2Snapshot(10)

	order := e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.FOK, Price: 103, Qty: 6})

	assert.Equal(t, domain.Cancelled, order.Status)
	assert.Empty(t, e.TradeLog())
	assert.Equal(t, before, e.L2Snapshot(10))
}

func TestEngine_S5_FeeTierCrossing(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "V", domain.Sell, 100, 2000)
	e.Submit(context.Background(), orderreader.Request{UserID: "B", Side: domain.Buy, Type: domain.Market, Qty: 2000})

	trades := e.TradeLog()
	require.Len(t, trades, 1)

	assert.Equal(t, 1, e.fees.TierFor("V"))
	assert.Equal(t, 1, e.fees.TierFor("B"))
	assert.InDelta(t, -20.0, trades[0].MakerFee, 0.0001)
	assert.InDelta(t, 80.0, trades[0].TakerFee, 0.0001)
}

func TestEngine_S6_CancelIdempotence(t *testing.T) {
	e, _ := newTestEngine(t)

	o := restLimit(t, e, "s1", domain.Sell, 101, 5)

	assert.True(t, e.CancelOrder(o.ID))
	assert.Equal(t, domain.Cancelled, o.Status)
	bbo := e.BBO()
	assert.Equal(t, 0.0, bbo.BestAskPrice)

	assert.False(t, e.CancelOrder(o.ID))
}

func TestEngine_FIFOWithinPriceLevel(t *testing.T) {
	e, _ := newTestEngine(t)

	first := restLimit(t, e, "s1", domain.Sell, 100, 5)
	restLimit(t, e, "s2", domain.Sell, 100, 5)

	buy := e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.Limit, Price: 100, Qty: 3})

	assert.Equal(t, domain.Completed, buy.Status)
	trades := e.TradeLog()
	require.Len(t, trades, 1)
	assert.Equal(t, first.ID, trades[0].SellOrderID)
}

func TestEngine_SelfTradeSkipsVolumeUpdate(t *testing.T) {
	e, _ := newTestEngine(t)

	restLimit(t, e, "same-user", domain.Sell, 100, 10)
	e.Submit(context.Background(), orderreader.Request{UserID: "same-user", Side: domain.Buy, Type: domain.Market, Qty: 10})

	assert.Equal(t, 0, e.fees.TierFor("same-user"))
}

func TestEngine_PublisherReceivesTrades(t *testing.T) {
	e, pub := newTestEngine(t)

	restLimit(t, e, "s1", domain.Sell, 100, 5)
	e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.Market, Qty: 5})

	events := pub.All()
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].UserID)
	assert.Equal(t, uint64(5), events[0].Quantity)
}

func TestEngine_PanickingPublisherIsolated(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetTradePublisher(panicPublisher{})

	restLimit(t, e, "s1", domain.Sell, 100, 5)

	assert.NotPanics(t, func() {
		e.Submit(context.Background(), orderreader.Request{UserID: "b", Side: domain.Buy, Type: domain.Market, Qty: 5})
	})
	assert.Len(t, e.TradeLog(), 1)
}

type panicPublisher struct{}

func (panicPublisher) Publish(trade.Event) { panic("boom") }
