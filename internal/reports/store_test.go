package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

func report(passID string, kept int) *Report {
	return New(passID, dedup.Stats{
		Strategy:  dedup.StrategyFuzzy,
		Processed: kept + 1,
		Kept:      kept,
		Removed:   1,
	}, 1500*time.Millisecond)
}

// runs the shared Store behavior against an implementation
func exerciseStore(t *testing.T, store Store, capped int) {
	t.Helper()
	ctx := context.Background()

	for i := 1; i <= capped+2; i++ {
		require.NoError(t, store.Save(ctx, report("pass-a", i)))
	}
	require.NoError(t, store.Save(ctx, report("pass-b", 99)))

	list, err := store.ListByPass(ctx, "pass-a", 0)
	require.NoError(t, err)
	require.Len(t, list, capped)

	// newest first
	assert.Equal(t, capped+2, list[0].Kept)
	assert.Equal(t, 3, list[len(list)-1].Kept)
	assert.Equal(t, dedup.StrategyFuzzy, list[0].Strategy)
	assert.Equal(t, 1500*time.Millisecond, list[0].Duration)

	limited, err := store.ListByPass(ctx, "pass-a", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	require.NoError(t, store.DeleteByPass(ctx, "pass-a"))

	list, err = store.ListByPass(ctx, "pass-a", 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	other, err := store.ListByPass(ctx, "pass-b", 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 99, other[0].Kept)

	assert.ErrorIs(t, store.Save(ctx, &Report{ID: "x"}), ErrInvalidReport)
	assert.ErrorIs(t, store.Save(ctx, nil), ErrInvalidReport)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(5), 5)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	r := report("p", 1)
	require.NoError(t, store.Save(ctx, r))
	r.Kept = 100

	list, err := store.ListByPass(ctx, "p", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].Kept)
}

func newRedisStore(t *testing.T, capped int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, capped, time.Hour), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, 5)
	exerciseStore(t, store, 5)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, 5)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, report("p", 1)))
	assert.Equal(t, time.Hour, mr.TTL("dedup:reports:p"))

	mr.FastForward(2 * time.Hour)

	list, err := store.ListByPass(ctx, "p", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStoreFromURL("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), report("p", 1)))

	_, err = NewRedisStoreFromURL("://not-a-url")
	assert.Error(t, err)
}
