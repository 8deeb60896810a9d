// Package matchpublisher adapts a Kafka producer to the
// internal/domain/trade.Publisher interface, fanning out executed trades
// to external market-data consumers.
package matchpublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/sablefin/matchcore/internal/domain/trade"
	"github.com/sablefin/matchcore/pkg/config"
	"github.com/sablefin/matchcore/pkg/errors"
	"github.com/sablefin/matchcore/pkg/logger"
)

// wireEvent is the JSON shape written to the trade topic. It mirrors
// trade.Event field for field; the separate type exists so the wire
// format is free to diverge from the in-process shape later without
// touching the domain package.
type wireEvent struct {
	UserID      string  `json:"userID"`
	BuyOrderID  string  `json:"buyOrderID"`
	SellOrderID string  `json:"sellOrderID"`
	Price       float64 `json:"price"`
	Quantity    uint64  `json:"quantity"`
	Timestamp   int64   `json:"timestamp"`
	MakerFee    float64 `json:"makerFee"`
	TakerFee    float64 `json:"takerFee"`
}

// Publisher writes trade events to Kafka. It implements trade.Publisher's
// no-error Publish signature by logging and swallowing failures itself —
// the engine's own isolation (a deferred recover around the interface
// call) only guards against a panicking publisher, not a returned error.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher returns a Publisher writing to cfg.TradeTopic.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.TradeTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{kafkaWriter: kafkaWriter, logger: log}
}

// Publish writes e to the trade topic. A marshal or write failure is
// logged and otherwise ignored, per the Publisher interface's no-error
// contract.
func (p *Publisher) Publish(e trade.Event) {
	payload, err := json.Marshal(wireEvent{
		UserID:      e.UserID,
		BuyOrderID:  e.BuyOrderID,
		SellOrderID: e.SellOrderID,
		Price:       e.Price,
		Quantity:    e.Quantity,
		Timestamp:   e.Timestamp,
		MakerFee:    e.MakerFee,
		TakerFee:    e.TakerFee,
	})
	if err != nil {
		p.logger.Error(err, logger.Field{Key: "action", Value: "marshal_trade_event"})
		return
	}

	msg := kafka.Message{Value: payload}
	if err := p.kafkaWriter.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Error(errors.NewErrorDetails(err.Error(), errors.KafkaPublishError, ""),
			logger.Field{Key: "buyOrderID", Value: e.BuyOrderID},
			logger.Field{Key: "sellOrderID", Value: e.SellOrderID},
		)
	}
}

// Close releases the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
