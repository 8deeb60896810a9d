// Command matchengine runs a single-pair matching engine: it consumes
// order submissions from Kafka, matches them against an in-memory book,
// publishes executed trades back to Kafka, and periodically snapshots
// resting orders to Redis.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sablefin/matchcore/internal/domain/fee"
	"github.com/sablefin/matchcore/internal/usecase/engine"
	"github.com/sablefin/matchcore/internal/usecase/matchpublisher"
	"github.com/sablefin/matchcore/internal/usecase/orderreader"
	"github.com/sablefin/matchcore/internal/usecase/snapshotstore"
	"github.com/sablefin/matchcore/pkg/config"
	"github.com/sablefin/matchcore/pkg/logger"
	"github.com/sablefin/matchcore/pkg/redis"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func init() {
	var err error
	cfg = &config.Config{}
	if err = config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addr = cfg.Redis.Addr
	redisConfig.Password = cfg.Redis.Password
	redisConfig.DB = cfg.Redis.DB
	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
		if !rclient.Reconnect(ctx) {
			log.Error(err, logger.Field{Key: "action", Value: "reconnect_redis_exhausted"})
			return
		}
	}

	store := snapshotstore.NewStore(rclient, log)
	reader := orderreader.NewReader(cfg.Kafka, log)
	publisher := matchpublisher.NewPublisher(cfg.Kafka, log)

	fees := fee.NewCalculator(fee.DefaultSchedule())
	if cfg.FeeScheduleTrace {
		fees.EnableTrace(log)
	}

	opts := engine.DefaultOptions()
	opts.SnapshotInterval = cfg.SnapshotInterval
	opts.SnapshotOffsetDelta = cfg.SnapshotOffsetDelta

	e := engine.NewWithHarness(cfg.Pair, fees, log, reader, store, opts)
	e.SetTradePublisher(publisher)

	if err := e.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}

	log.Info("matching engine started", logger.Field{Key: "pair", Value: cfg.Pair})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_publisher"})
	}
	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_redis_client"})
	}

	log.Info("matching engine shutdown complete")
}
