// Package orderreader adapts a Kafka consumer group to the
// internal/domain/orderreader.Reader interface the engine's harness
// consumes submissions through.
package orderreader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	domain "github.com/sablefin/matchcore/internal/domain/orderbook"
	"github.com/sablefin/matchcore/internal/domain/orderreader"
	"github.com/sablefin/matchcore/pkg/config"
	"github.com/sablefin/matchcore/pkg/errors"
	"github.com/sablefin/matchcore/pkg/logger"
)

// wireRequest is the JSON shape submitters write to the order topic: a
// human-readable side/type pair instead of the domain's integer enums.
type wireRequest struct {
	UserID string  `json:"userID"`
	ID     string  `json:"id"`
	Side   string  `json:"side"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
	Qty    uint64  `json:"qty"`
}

func parseSide(s string) (domain.Side, error) {
	switch s {
	case "buy":
		return domain.Buy, nil
	case "sell":
		return domain.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseType(s string) (domain.Type, error) {
	switch s {
	case "limit":
		return domain.Limit, nil
	case "market":
		return domain.Market, nil
	case "ioc":
		return domain.IOC, nil
	case "fok":
		return domain.FOK, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

// Reader consumes order submissions from Kafka under a consumer group,
// decoding each message as a wireRequest and resuming, on restart, from the
// group's last committed offset — there is no SetOffset in the domain
// interface because this adapter never seeks explicitly.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
	pending     *kafka.Message
}

// NewReader returns a Reader consuming cfg.OrderTopic under cfg.GroupID.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.OrderTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Reader{kafkaReader: kafkaReader, logger: log}
}

// ReadRequest blocks until the next submission is available, decoding it
// into an orderreader.Request.
func (r *Reader) ReadRequest(ctx context.Context) (orderreader.Request, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		return orderreader.Request{}, errors.NewErrorDetails(
			"failed to read order submission", errors.KafkaReadError, "")
	}
	r.pending = &msg

	var wire wireRequest
	if err := json.Unmarshal(msg.Value, &wire); err != nil {
		return orderreader.Request{}, errors.NewErrorDetails(
			"failed to decode order submission", errors.KafkaReadError, "")
	}

	side, err := parseSide(wire.Side)
	if err != nil {
		return orderreader.Request{}, errors.NewErrorDetails(err.Error(), errors.KafkaReadError, "side")
	}
	typ, err := parseType(wire.Type)
	if err != nil {
		return orderreader.Request{}, errors.NewErrorDetails(err.Error(), errors.KafkaReadError, "type")
	}

	r.logger.DebugContext(ctx, "order submission read",
		logger.Field{Key: "userID", Value: wire.UserID},
		logger.Field{Key: "side", Value: wire.Side},
		logger.Field{Key: "type", Value: wire.Type},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return orderreader.Request{
		UserID: wire.UserID,
		ID:     wire.ID,
		Side:   side,
		Type:   typ,
		Price:  wire.Price,
		Qty:    wire.Qty,
	}, nil
}

// Commit acknowledges the last message returned by ReadRequest.
func (r *Reader) Commit(ctx context.Context) error {
	if r.pending == nil {
		return nil
	}
	if err := r.kafkaReader.CommitMessages(ctx, *r.pending); err != nil {
		return errors.NewErrorDetails("failed to commit order offset", errors.KafkaCommitError, "")
	}
	r.pending = nil
	return nil
}

// Close releases the underlying Kafka consumer.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		return errors.NewErrorDetails("failed to close kafka reader", errors.KafkaReadError, "")
	}
	return nil
}
