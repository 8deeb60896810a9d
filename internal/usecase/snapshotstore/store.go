// Package snapshotstore adapts a Redis client to the
// internal/domain/snapshot.Store interface, persisting one JSON blob per
// trading pair keyed by the pair name itself.
package snapshotstore

import (
	"context"
	"encoding/json"

	"github.com/sablefin/matchcore/internal/domain/snapshot"
	"github.com/sablefin/matchcore/pkg/errors"
	"github.com/sablefin/matchcore/pkg/logger"
	"github.com/sablefin/matchcore/pkg/redis"
)

// Store persists Snapshot values in Redis, one key per trading pair, with
// no expiration — a snapshot is valid until the next one overwrites it.
type Store struct {
	redisClient redis.Client
	logger      *logger.Logger
}

// NewStore returns a Store backed by an already-connected redisClient.
func NewStore(redisClient redis.Client, log *logger.Logger) *Store {
	return &Store{redisClient: redisClient, logger: log}
}

// Store serializes snap and writes it to the key for pair.
func (s *Store) Store(ctx context.Context, pair string, snap *snapshot.Snapshot) error {
	buf, err := json.Marshal(snap)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: pair})
		return errors.NewErrorDetails("failed to marshal snapshot", errors.SnapshotMarshalError, pair)
	}

	if err := s.redisClient.Set(ctx, pair, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: pair})
		return errors.NewErrorDetails("failed to store snapshot", errors.SnapshotStoreError, pair)
	}

	s.logger.InfoContext(ctx, "snapshot stored",
		logger.Field{Key: "pair", Value: pair},
		logger.Field{Key: "orders", Value: len(snap.Orders)},
	)
	return nil
}

// Load retrieves and deserializes the snapshot for pair. A missing key
// returns (nil, nil).
func (s *Store) Load(ctx context.Context, pair string) (*snapshot.Snapshot, error) {
	data, err := s.redisClient.Get(ctx, pair)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: pair})
		return nil, errors.NewErrorDetails("failed to load snapshot", errors.SnapshotLoadError, pair)
	}
	if data == "" {
		return nil, nil
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "pair", Value: pair})
		return nil, errors.NewErrorDetails("failed to unmarshal snapshot", errors.SnapshotLoadError, pair)
	}

	return &snap, nil
}
