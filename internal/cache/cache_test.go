package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))

	payload, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), payload)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyCanonicalizesParameterOrder(t *testing.T) {
	a := Key("products", "acct-1", map[string]string{"page": "2", "limit": "10", "category": "books"})
	b := Key("products", "acct-1", map[string]string{"category": "books", "limit": "10", "page": "2"})
	assert.Equal(t, a, b)
}

func TestKeySeparatesIdentitiesAndValues(t *testing.T) {
	base := Key("products", "acct-1", map[string]string{"page": "1"})

	assert.NotEqual(t, base, Key("products", "acct-2", map[string]string{"page": "1"}))
	assert.NotEqual(t, base, Key("products", "acct-1", map[string]string{"page": "2"}))
	assert.NotEqual(t, base, Key("orders", "acct-1", map[string]string{"page": "1"}))
}

func TestKeyAnonymousSentinel(t *testing.T) {
	key := Key("products", "", map[string]string{"page": "1"})
	assert.Equal(t, Key("products", AnonymousIdentity, map[string]string{"page": "1"}), key)
}
