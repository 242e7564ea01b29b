package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bdget/kv"
)

func TestClientLayeredGet(t *testing.T) {
	ctx := context.Background()
	first := kv.NewMemoryStore()
	second := kv.NewMemoryStore()
	client := NewClient(first, second)

	require.NoError(t, second.Set(ctx, []byte("k"), []byte("from-second")))

	value, err := client.Get(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("from-second"), value)

	// First store wins once populated.
	require.NoError(t, first.Set(ctx, []byte("k"), []byte("from-first")))
	value, err = client.Get(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("from-first"), value)
}

func TestClientSetWritesAllStores(t *testing.T) {
	ctx := context.Background()
	first := kv.NewMemoryStore()
	second := kv.NewMemoryStore()
	client := NewClient(first, second)

	require.NoError(t, client.Set(ctx, []byte("k"), []byte("v")))

	for _, store := range []kv.Store{first, second} {
		value, err := store.Get(ctx, []byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), value)
	}

	require.NoError(t, client.Delete(ctx, []byte("k")))
	_, err := client.Get(ctx, []byte("k"))
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestClientMiss(t *testing.T) {
	client := NewClient(kv.NewMemoryStore())

	_, err := client.Get(context.Background(), []byte("missing"))
	require.ErrorIs(t, err, kv.ErrNotFound)
}
