package snapshotstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/matchcore/internal/domain/snapshot"
	"github.com/sablefin/matchcore/pkg/logger"
)

// fakeClient is a minimal in-memory stand-in for redis.Client, enough to
// exercise Store/Load without a real Redis instance.
type fakeClient struct {
	data    map[string]string
	setErr  error
	getErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Connect(ctx context.Context) error    { return nil }
func (f *fakeClient) Disconnect(ctx context.Context) error { return nil }
func (f *fakeClient) Ping(ctx context.Context) error       { return nil }
func (f *fakeClient) Reconnect(ctx context.Context) bool   { return true }

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) (int64, error) {
	for _, k := range keys {
		delete(f.data, k)
	}
	return int64(len(keys)), nil
}

func newTestStore(t *testing.T) (*Store, *fakeClient) {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	client := newFakeClient()
	return NewStore(client, log), client
}

func TestStore_StoreThenLoad_RoundTrips(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	snap := &snapshot.Snapshot{
		Orders: []snapshot.BookOrder{
			{OrderID: "o1", UserID: "alice", Side: 0, Price: 100, Original: 5, Filled: 2, Timestamp: 1},
		},
		TradeSequence: 3,
		SubmitOffset:  42,
		Timestamp:     99,
	}

	require.NoError(t, s.Store(ctx, "BTC-USD", snap))

	loaded, err := s.Load(ctx, "BTC-USD")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.SubmitOffset, loaded.SubmitOffset)
	assert.Equal(t, snap.TradeSequence, loaded.TradeSequence)
	require.Len(t, loaded.Orders, 1)
	assert.Equal(t, "o1", loaded.Orders[0].OrderID)
}

func TestStore_Load_MissingKeyReturnsNilNil(t *testing.T) {
	s, _ := newTestStore(t)
	loaded, err := s.Load(context.Background(), "no-such-pair")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Store_PropagatesSetFailure(t *testing.T) {
	s, client := newTestStore(t)
	client.setErr = errors.New("redis unavailable")

	err := s.Store(context.Background(), "BTC-USD", &snapshot.Snapshot{})
	assert.Error(t, err)
}

func TestStore_Load_PropagatesGetFailure(t *testing.T) {
	s, client := newTestStore(t)
	client.getErr = errors.New("redis unavailable")

	_, err := s.Load(context.Background(), "BTC-USD")
	assert.Error(t, err)
}
