package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield-lang/outfieldc/internal/config"
)

func openTestCache(t *testing.T) (*Cache, context.Context) {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, ctx
}

func TestStoreThenLookupHits(t *testing.T) {
	c, ctx := openTestCache(t)
	key := Key("a.of", "fn f() {}", config.DefaultOptions())

	_, hit, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Store(ctx, key, "local function f() end\n"))

	out, hit, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "local function f() end\n", out)
}

func TestKeyChangesWithSourceOrOptions(t *testing.T) {
	opts := config.DefaultOptions()
	k1 := Key("a.of", "fn f() {}", opts)
	k2 := Key("a.of", "fn g() {}", opts)
	assert.NotEqual(t, k1, k2)

	luaOpts := opts
	luaOpts.Target = config.TargetLua
	k3 := Key("a.of", "fn f() {}", luaOpts)
	assert.NotEqual(t, k1, k3)
}

func TestPruneRemovesOldEntries(t *testing.T) {
	c, ctx := openTestCache(t)
	key := Key("a.of", "fn f() {}", config.DefaultOptions())
	require.NoError(t, c.Store(ctx, key, "out"))

	require.NoError(t, c.Prune(ctx, -time.Second))

	_, hit, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
}
