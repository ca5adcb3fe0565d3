package replay

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSQLite(t *testing.T, ttl time.Duration) *SQLite {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "replay.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_SeenAfterRemember(t *testing.T) {
	ctx := context.Background()
	store := testSQLite(t, 0)

	seen, err := store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Remember(ctx, "msg-1"))

	seen, err = store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen(ctx, "msg-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "replay.db")

	store, err := OpenSQLite(path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Remember(ctx, "msg-1"))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path, 0)
	require.NoError(t, err)
	defer store.Close()

	seen, err := store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen, "identifier survives reopen")
}

func TestSQLite_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := testSQLite(t, time.Minute)

	current := time.Unix(1_000_000, 0)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Remember(ctx, "msg-1"))

	current = current.Add(30 * time.Second)
	seen, err := store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen)

	current = current.Add(time.Minute)
	seen, err = store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, seen, "expired entry treated as unseen")
}

func TestSQLite_RememberRefreshes(t *testing.T) {
	ctx := context.Background()
	store := testSQLite(t, time.Minute)

	current := time.Unix(1_000_000, 0)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Remember(ctx, "msg-1"))

	current = current.Add(45 * time.Second)
	require.NoError(t, store.Remember(ctx, "msg-1"))

	current = current.Add(45 * time.Second)
	seen, err := store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLite_Prune(t *testing.T) {
	ctx := context.Background()
	store := testSQLite(t, time.Minute)

	current := time.Unix(1_000_000, 0)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Remember(ctx, "old"))
	current = current.Add(2 * time.Minute)
	require.NoError(t, store.Remember(ctx, "fresh"))

	require.NoError(t, store.Prune(ctx))

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM seen_messages`).Scan(&count))
	assert.Equal(t, 1, count, "only the fresh row remains")

	seen, err := store.Seen(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSQLite_PruneZeroTTLNoop(t *testing.T) {
	ctx := context.Background()
	store := testSQLite(t, 0)

	require.NoError(t, store.Remember(ctx, "msg-1"))
	require.NoError(t, store.Prune(ctx))

	seen, err := store.Seen(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, seen)
}
