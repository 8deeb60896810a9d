package engine

import (
	"context"
	"testing"

	"github.com/sablefin/matchcore/internal/domain/fee"
	domain "github.com/sablefin/matchcore/internal/domain/orderbook"
	"github.com/sablefin/matchcore/internal/domain/orderreader"
	"github.com/sablefin/matchcore/internal/domain/trade"
	"github.com/sablefin/matchcore/pkg/logger"
)

func setupBenchmarkEngine(b *testing.B) *Engine {
	log, err := logger.NewLogger()
	if err != nil {
		b.Fatal(err)
	}
	e := New("BTC-USD", fee.NewCalculator(fee.DefaultSchedule()), log)
	e.SetTradePublisher(trade.NewInMemoryPublisher())
	return e
}

func BenchmarkEngine_ProcessLimitOrder(b *testing.B) {
	e := setupBenchmarkEngine(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := domain.Buy
		if i%2 == 0 {
			side = domain.Sell
		}
		e.Submit(ctx, orderreader.Request{
			UserID: "user",
			Side:   side,
			Type:   domain.Limit,
			Price:  50000.0 + float64(i%100),
			Qty:    10,
		})
	}
}

func BenchmarkEngine_ProcessMarketOrderAgainstDeepBook(b *testing.B) {
	e := setupBenchmarkEngine(b)
	ctx := context.Background()

	for i := 0; i < 10_000; i++ {
		e.Submit(ctx, orderreader.Request{
			UserID: "maker",
			Side:   domain.Sell,
			Type:   domain.Limit,
			Price:  50000.0 + float64(i),
			Qty:    10,
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Submit(ctx, orderreader.Request{
			UserID: "taker",
			Side:   domain.Buy,
			Type:   domain.Market,
			Qty:    1,
		})
	}
}
