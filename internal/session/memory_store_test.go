package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	live := func(id string) Session {
		return Session{
			SessionID: id,
			UserID:    "user-1",
			Claims:    map[string]string{"email": "a@b.com"},
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("create and get round trip", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Create(ctx, live("sid-1")))

		got, err := store.Get(ctx, "sid-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "a@b.com", got.Claims["email"])
	})

	t.Run("missing session is nil without error", func(t *testing.T) {
		store := NewMemoryStore()
		got, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired session is dropped on read", func(t *testing.T) {
		store := NewMemoryStore()
		s := live("sid-2")
		s.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "sid-2")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("create validates identifiers", func(t *testing.T) {
		store := NewMemoryStore()
		assert.Error(t, store.Create(ctx, Session{UserID: "user-1"}))
		assert.Error(t, store.Create(ctx, Session{SessionID: "sid-3"}))
	})

	t.Run("delete removes the session", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Create(ctx, live("sid-4")))
		require.NoError(t, store.Delete(ctx, "sid-4"))

		got, err := store.Get(ctx, "sid-4")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("update with past expiry removes the session", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Create(ctx, live("sid-5")))

		s := live("sid-5")
		s.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Update(ctx, s))

		got, err := store.Get(ctx, "sid-5")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGenerateID(t *testing.T) {
	first, err := GenerateID()
	require.NoError(t, err)
	second, err := GenerateID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, first, 43) // 32 bytes, unpadded base64url
}
