package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"joinme-auth/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	newHandler := func(mw *AuthMiddleware) (http.Handler, *session.Session) {
		var captured session.Session
		h := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := SessionFromContext(r.Context()); ok {
				captured = *s
			}
			w.WriteHeader(http.StatusOK)
		}))
		return h, &captured
	}

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		mw := NewAuthMiddleware(session.NewMemoryStore())
		h, _ := newHandler(mw)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session is unauthorized", func(t *testing.T) {
		mw := NewAuthMiddleware(session.NewMemoryStore())
		h, _ := newHandler(mw)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "nope"})
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("live session passes and reaches the handler", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), session.Session{
			SessionID: "sid-1",
			UserID:    "user-1",
			Claims:    map[string]string{"provider": "joinme"},
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		mw := NewAuthMiddleware(store)
		h, captured := newHandler(mw)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
		h.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", captured.UserID)
		assert.Equal(t, "joinme", captured.Claims["provider"])

		userID, ok := UserIDFromContext(context.WithValue(context.Background(), sessionKey, captured))
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("expired session is deleted and unauthorized", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), session.Session{
			SessionID: "sid-2",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		mw := NewAuthMiddleware(store)
		h, _ := newHandler(mw)

		// expire it behind the store's back
		require.NoError(t, store.Update(context.Background(), session.Session{
			SessionID: "sid-2",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(-time.Minute),
		}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-2"})
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
