// Package engine is the order-type dispatcher and matching loop: for each
// submission it builds an Order, matches it against the opposite ladder
// under its type's policy (limit, market, IOC, FOK), builds Trade records,
// consults the fee Calculator, and fans executed trades out to an attached
// Publisher.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sablefin/matchcore/internal/domain/fee"
	domain "github.com/sablefin/matchcore/internal/domain/orderbook"
	"github.com/sablefin/matchcore/internal/domain/orderreader"
	"github.com/sablefin/matchcore/internal/domain/snapshot"
	"github.com/sablefin/matchcore/internal/domain/trade"
	book "github.com/sablefin/matchcore/internal/usecase/orderbook"
	"github.com/sablefin/matchcore/pkg/logger"
	"github.com/sablefin/matchcore/pkg/util"
)

// Engine matches submissions against one trading pair's book. Submit is
// the synchronous core exercised directly in tests;
// Start/Stop add an optional harness that pulls submissions off an
// orderreader.Reader and periodically persists snapshots through a
// snapshot.Store, used by cmd/matchengine.
type Engine struct {
	mu        sync.RWMutex
	book      *book.Book
	fees      *fee.Calculator
	publisher trade.Publisher
	log       *logger.Logger
	pair      string

	clock    int64
	tradeLog []domain.Trade

	reader             orderreader.Reader
	store              snapshot.Store
	submitOffset       int64
	lastSnapshotOffset int64
	opts               *Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns an Engine with no attached order reader or snapshot store —
// the configuration tests and the in-process embedding use, driving
// Submit directly rather than through Start's background harness.
func New(pair string, fees *fee.Calculator, log *logger.Logger) *Engine {
	return NewWithHarness(pair, fees, log, nil, nil, DefaultOptions())
}

// NewWithHarness returns an Engine wired to an external order reader and
// snapshot store, for the standalone binary. A nil reader disables the
// whole background harness (Start launches no goroutine at all); with a
// reader but a nil store, Start runs the order processor without the
// snapshot ticker.
func NewWithHarness(pair string, fees *fee.Calculator, log *logger.Logger, reader orderreader.Reader, store snapshot.Store, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}

	e := &Engine{
		book:         book.New(),
		fees:         fees,
		log:          log,
		pair:         pair,
		reader:       reader,
		store:        store,
		opts:         opts,
		submitOffset: -1,
	}

	if store != nil {
		if err := e.loadSnapshot(context.Background()); err != nil {
			e.log.Error(err, logger.Field{Key: "pair", Value: pair})
		}
	}

	return e
}

// SetTradePublisher attaches (or, with nil, detaches) the publisher trades
// are fanned out to.
func (e *Engine) SetTradePublisher(p trade.Publisher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publisher = p
}

// BBO returns the current best-bid/best-ask snapshot.
func (e *Engine) BBO() domain.BBO {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.BBO(e.clock)
}

// L2Snapshot returns up to depth aggregated levels per side.
func (e *Engine) L2Snapshot(depth int) domain.L2Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.book.L2Snapshot(depth, e.clock)
}

// CancelOrder removes the resting order with the given id. Returns false if
// no such resting order exists.
func (e *Engine) CancelOrder(orderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.CancelOrder(orderID)
}

// TradeLog returns a copy of every trade executed so far, in execution
// order.
func (e *Engine) TradeLog() []domain.Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Trade, len(e.tradeLog))
	copy(out, e.tradeLog)
	return out
}

// Submit admits one order request into the engine: it assigns the
// request's admission timestamp, dispatches it by type, and returns the
// resulting Order with its final status. It never returns an error —
// business rejections surface as a terminal status on the returned order,
// per the engine's error-handling contract; only a violated structural
// invariant (caller-side malformed input) panics.
func (e *Engine) Submit(ctx context.Context, req orderreader.Request) *domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = util.WithRequestID(ctx, req.ID)
	ctx = util.WithTraceID(ctx, uuid.NewString())

	o := domain.New(req.UserID, req.ID, req.Side, req.Type, req.Price, req.Qty, e.nextTimestamp())

	e.log.DebugContext(ctx, "processing order",
		logger.Field{Key: "pair", Value: e.pair},
		logger.Field{Key: "orderID", Value: o.ID},
		logger.Field{Key: "userID", Value: o.UserID},
		logger.Field{Key: "side", Value: o.Side.String()},
		logger.Field{Key: "type", Value: o.Type.String()},
	)

	switch o.Type {
	case domain.Limit:
		e.matchLimit(ctx, o)
	case domain.Market:
		e.matchMarket(ctx, o)
	case domain.IOC:
		e.matchIOC(ctx, o)
	case domain.FOK:
		e.matchFOK(ctx, o)
	}

	return o
}

func (e *Engine) nextTimestamp() int64 {
	e.clock++
	return e.clock
}

// matchLimit matches against the opposite ladder up to o's limit price;
// any remainder rests on the book.
func (e *Engine) matchLimit(ctx context.Context, o *domain.Order) {
	e.runMatchingLoop(ctx, o)

	if o.Remaining() == 0 {
		o.Status = domain.Completed
		return
	}
	if o.Filled > 0 {
		o.Status = domain.PartiallyFilled
	}
	e.book.InsertLimit(o)
}

// matchMarket matches unconditionally against the best opposite price
// until filled or liquidity runs out. It never rests.
func (e *Engine) matchMarket(ctx context.Context, o *domain.Order) {
	e.runMatchingLoop(ctx, o)
	e.finishNonResting(o)
}

// matchIOC matches up to o's limit price, then discards any remainder.
func (e *Engine) matchIOC(ctx context.Context, o *domain.Order) {
	e.runMatchingLoop(ctx, o)
	e.finishNonResting(o)
}

// matchFOK fills o completely or not at all. The feasibility pre-scan runs
// before any state is touched; if it fails, o is cancelled untouched.
func (e *Engine) matchFOK(ctx context.Context, o *domain.Order) {
	if !e.book.CanFullyFill(o.Side, o.Price, o.Type == domain.Market, o.Original) {
		o.Status = domain.Cancelled
		return
	}
	e.runMatchingLoop(ctx, o)
	// CanFullyFill guarantees full execution; a mismatch here is a
	// programmer error (ladder mutated between scan and loop), which
	// cannot happen under the single-writer model this engine assumes.
	if o.Remaining() != 0 {
		o.Status = domain.Cancelled
		return
	}
	o.Status = domain.Completed
}

// finishNonResting sets the terminal status for a Market or IOC order
// after matching: Cancelled if nothing crossed, PartiallyFilled if the
// opposite side ran out early, Completed if fully filled.
func (e *Engine) finishNonResting(o *domain.Order) {
	switch {
	case o.Filled == 0:
		o.Status = domain.Cancelled
	case o.Remaining() > 0:
		o.Status = domain.PartiallyFilled
	default:
		o.Status = domain.Completed
	}
}

// runMatchingLoop repeatedly crosses o against the best opposite level
// until o is filled or the opposite side no longer crosses (or is empty).
// It never mutates o's Status; callers finalize that per their type's
// policy.
func (e *Engine) runMatchingLoop(ctx context.Context, o *domain.Order) {
	isMarket := o.Type == domain.Market

	for o.Remaining() > 0 {
		level := e.book.BestOpposite(o.Side)
		if level == nil {
			break
		}
		if !book.Crosses(o.Side, o.Price, isMarket, level.Price) {
			break
		}

		maker := level.Head()
		qty := o.Remaining()
		if maker.Remaining() < qty {
			qty = maker.Remaining()
		}

		e.executeTrade(ctx, o, maker, level.Price, qty)
	}
}

// executeTrade applies one match between taker o and resting maker at
// price for qty: updates both orders' filled quantity, evicts the maker if
// it is now fully filled, updates fee-tier volume, computes fees, appends
// to the trade log, and publishes the resulting event.
func (e *Engine) executeTrade(ctx context.Context, taker, maker *domain.Order, price float64, qty uint64) {
	level := maker.Level
	level.ReduceQuantity(maker, qty)
	taker.Fill(qty)

	if maker.IsFilled() {
		e.book.EvictIfFilled(maker)
	} else {
		maker.Status = domain.PartiallyFilled
	}

	notional := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
	if taker.UserID != maker.UserID {
		e.fees.UpdateVolume(taker.UserID, notional)
		e.fees.UpdateVolume(maker.UserID, notional)
	}
	makerFee := e.fees.MakerFee(maker.UserID, price, qty)
	takerFee := e.fees.TakerFee(taker.UserID, price, qty)

	buyID, sellID := maker.ID, taker.ID
	if taker.Side == domain.Buy {
		buyID, sellID = taker.ID, maker.ID
	}

	t := domain.Trade{
		TakerUserID: taker.UserID,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Quantity:    qty,
		Timestamp:   taker.Timestamp,
		MakerFee:    makerFee.InexactFloat64(),
		TakerFee:    takerFee.InexactFloat64(),
	}
	e.tradeLog = append(e.tradeLog, t)
	e.publish(ctx, t)
}

// publish fans t out to the attached publisher, if any. A panicking
// publisher is recovered and logged: a failing publisher must never abort
// a match already in progress, and matching state is already consistent by
// the time this call happens.
func (e *Engine) publish(ctx context.Context, t domain.Trade) {
	if e.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.ErrorContext(ctx, errPublisherPanic(r), logger.Field{Key: "pair", Value: e.pair})
		}
	}()
	e.publisher.Publish(trade.Event{
		UserID:      t.TakerUserID,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price,
		Quantity:    t.Quantity,
		Timestamp:   t.Timestamp,
		MakerFee:    t.MakerFee,
		TakerFee:    t.TakerFee,
	})
}

// Start launches the background harness: an order-processing loop reading
// off reader, and a periodic snapshot ticker. It is a no-op beyond storing
// the cancellable context if no reader was configured — callers driving
// Submit directly (tests, in-process embedding) never need it.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	if e.reader == nil {
		return nil
	}

	e.wg.Add(1)
	go e.runOrderProcessor()

	if e.store != nil {
		e.wg.Add(1)
		go e.runSnapshotManager()
	}

	e.log.Info("engine started", logger.Field{Key: "pair", Value: e.pair})
	return nil
}

// Stop cancels the harness and waits for its goroutines to exit, or until
// ctx is done.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.log.Info("engine stopped")
		return nil
	case <-ctx.Done():
		e.log.Warn("engine stop timed out")
		return ctx.Err()
	}
}

func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()
	defer e.reader.Close()

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		req, err := e.reader.ReadRequest(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.log.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "read_order_request"})
			time.Sleep(100 * time.Millisecond)
			continue
		}

		e.Submit(e.ctx, req)

		if err := e.reader.Commit(e.ctx); err != nil {
			e.log.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "commit_order_request"})
		}

		e.mu.Lock()
		e.submitOffset++
		e.mu.Unlock()
	}
}

func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.opts.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if e.shouldSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

func (e *Engine) shouldSnapshot() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.submitOffset-e.lastSnapshotOffset >= e.opts.SnapshotOffsetDelta
}

func (e *Engine) createAndStoreSnapshot() {
	e.mu.Lock()
	snap := &snapshot.Snapshot{
		TradeSequence: int64(len(e.tradeLog)),
		SubmitOffset:  e.submitOffset,
		Timestamp:     e.clock,
	}
	for _, o := range e.book.AllOrders() {
		snap.Orders = append(snap.Orders, snapshot.BookOrder{
			OrderID:   o.ID,
			UserID:    o.UserID,
			Side:      uint8(o.Side),
			Price:     o.Price,
			Original:  o.Original,
			Filled:    o.Filled,
			Timestamp: o.Timestamp,
		})
	}
	offset := e.submitOffset
	e.mu.Unlock()

	if err := e.store.Store(e.ctx, e.pair, snap); err != nil {
		e.log.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "store_snapshot"})
		return
	}

	e.mu.Lock()
	e.lastSnapshotOffset = offset
	e.mu.Unlock()
}

// errPublisherPanic wraps a recovered publisher panic value as an error for
// logging.
func errPublisherPanic(r any) error {
	return fmt.Errorf("trade publisher panicked: %v", r)
}

// loadSnapshot restores resting orders from the configured store, if any
// snapshot exists. A missing snapshot is not an error.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snap, err := e.store.Load(ctx, e.pair)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	for _, bo := range snap.Orders {
		side := domain.Side(bo.Side)
		o := domain.New(bo.UserID, bo.OrderID, side, domain.Limit, bo.Price, bo.Original, bo.Timestamp)
		o.Filled = bo.Filled
		if o.Filled > 0 {
			o.Status = domain.PartiallyFilled
		}
		e.book.InsertLimit(o)
		if bo.Timestamp > e.clock {
			e.clock = bo.Timestamp
		}
	}

	e.submitOffset = snap.SubmitOffset
	e.lastSnapshotOffset = snap.SubmitOffset

	e.log.Info("orderbook restored from snapshot",
		logger.Field{Key: "pair", Value: e.pair},
		logger.Field{Key: "submitOffset", Value: snap.SubmitOffset},
	)
	return nil
}
