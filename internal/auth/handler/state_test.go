package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"joinme-auth/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookieName {
			return c
		}
	}
	t.Fatal("state cookie not set")
	return nil
}

func TestStateRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("token and properties survive the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/joinme", nil)

		token := issueState(c, auth.Properties{auth.PropRedirectURI: "/dashboard"})
		require.NotEmpty(t, token)
		cookie := stateCookieFrom(t, w)

		w2 := httptest.NewRecorder()
		c2, _ := gin.CreateTestContext(w2)
		c2.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/joinme", nil)
		c2.Request.AddCookie(cookie)

		gotToken, gotProps := consumeState(c2)
		assert.Equal(t, token, gotToken)
		assert.Equal(t, auth.Properties{auth.PropRedirectURI: "/dashboard"}, gotProps)
	})

	t.Run("consume clears the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/joinme", nil)
		issueState(c, nil)
		cookie := stateCookieFrom(t, w)

		w2 := httptest.NewRecorder()
		c2, _ := gin.CreateTestContext(w2)
		c2.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/joinme", nil)
		c2.Request.AddCookie(cookie)
		consumeState(c2)

		cleared := stateCookieFrom(t, w2)
		assert.Equal(t, -1, cleared.MaxAge)
		assert.Empty(t, cleared.Value)
	})

	t.Run("missing cookie yields an empty token", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/joinme", nil)

		token, props := consumeState(c)
		assert.Empty(t, token)
		assert.Nil(t, props)
	})

	t.Run("garbage cookie yields an empty token", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/callback/joinme", nil)
		c.Request.AddCookie(&http.Cookie{Name: stateCookieName, Value: "%%%not-base64%%%"})

		token, _ := consumeState(c)
		assert.Empty(t, token)
	})

	t.Run("tokens are unique per challenge", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/oauth/login/joinme", nil)

		assert.NotEqual(t, issueState(c, nil), issueState(c, nil))
	})
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, isLocalPath("/dashboard"))
	assert.True(t, isLocalPath("/"))
	assert.False(t, isLocalPath(""))
	assert.False(t, isLocalPath("https://evil.example.com/"))
	assert.False(t, isLocalPath("//evil.example.com"))
}
