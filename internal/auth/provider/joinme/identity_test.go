package joinme

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hex32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestSyntheticUserID(t *testing.T) {
	t.Run("is deterministic for the same email", func(t *testing.T) {
		first := syntheticUserID("user@example.com")
		second := syntheticUserID("user@example.com")
		assert.Equal(t, first, second)
	})

	t.Run("is 32 lowercase hex characters", func(t *testing.T) {
		id := syntheticUserID("user@example.com")
		assert.Regexp(t, hex32, id)
	})

	t.Run("differs for different emails", func(t *testing.T) {
		assert.NotEqual(t, syntheticUserID("a@b.com"), syntheticUserID("b@a.com"))
	})

	t.Run("is empty for an empty email", func(t *testing.T) {
		assert.Empty(t, syntheticUserID(""))
	})

	t.Run("matches the known md5 of a@b.com", func(t *testing.T) {
		assert.Equal(t, "357a20e8c56e69d6f9734d23ef9517e8", syntheticUserID("a@b.com"))
	})
}

func TestParseExpiresIn(t *testing.T) {
	seconds := func(n int) *time.Duration {
		d := time.Duration(n) * time.Second
		return &d
	}

	tests := []struct {
		name string
		raw  string
		want *time.Duration
	}{
		{"quoted decimal string", `"3600"`, seconds(3600)},
		{"bare number", `7200`, seconds(7200)},
		{"zero", `"0"`, seconds(0)},
		{"not a number", `"not-a-number"`, nil},
		{"negative", `"-60"`, nil},
		{"empty string", `""`, nil},
		{"json null", `null`, nil},
		{"absent", ``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExpiresIn(json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNewIdentity(t *testing.T) {
	token := &tokenResponse{
		AccessToken:  "T",
		RefreshToken: "R",
		ExpiresIn:    json.RawMessage(`"7200"`),
		Scope:        "user_info scheduler",
	}

	t.Run("maps a complete payload", func(t *testing.T) {
		id := newIdentity(token, map[string]any{
			"email":            "a@b.com",
			"fullName":         "A B",
			"subscriptionType": "pro",
		})

		assert.Equal(t, "joinme", id.Provider)
		assert.Equal(t, "T", id.AccessToken)
		assert.Equal(t, "R", id.RefreshToken)
		require.NotNil(t, id.ExpiresIn)
		assert.Equal(t, 7200*time.Second, *id.ExpiresIn)
		assert.Equal(t, []string{"user_info", "scheduler"}, id.Scope)
		assert.Equal(t, "a@b.com", id.Email)
		assert.Equal(t, "A B", id.FullName)
		assert.Equal(t, "pro", id.AccountType)
		assert.Equal(t, syntheticUserID("a@b.com"), id.UserID)
	})

	t.Run("seeds claims from the identity", func(t *testing.T) {
		id := newIdentity(token, map[string]any{
			"email":            "a@b.com",
			"fullName":         "A B",
			"subscriptionType": "pro",
		})

		assert.Equal(t, id.UserID, id.Claims["sub"])
		assert.Equal(t, "a@b.com", id.Claims["email"])
		assert.Equal(t, "A B", id.Claims["name"])
		assert.Equal(t, "pro", id.Claims["account_type"])
	})

	t.Run("missing fullName leaves only that attribute unset", func(t *testing.T) {
		id := newIdentity(token, map[string]any{
			"email":            "a@b.com",
			"subscriptionType": "pro",
		})

		assert.Empty(t, id.FullName)
		assert.Equal(t, "a@b.com", id.Email)
		assert.Equal(t, "pro", id.AccountType)
		assert.NotContains(t, id.Claims, "name")
	})

	t.Run("missing email leaves user id unset without error", func(t *testing.T) {
		id := newIdentity(token, map[string]any{
			"fullName": "A B",
		})

		assert.Empty(t, id.Email)
		assert.Empty(t, id.UserID)
		assert.NotContains(t, id.Claims, "sub")
		assert.NotContains(t, id.Claims, "email")
	})

	t.Run("non-string profile values degrade to unset", func(t *testing.T) {
		id := newIdentity(token, map[string]any{
			"email":    42,
			"fullName": map[string]any{"first": "A"},
		})

		assert.Empty(t, id.Email)
		assert.Empty(t, id.FullName)
		assert.Empty(t, id.UserID)
	})

	t.Run("unparsable expires_in leaves expiry unset", func(t *testing.T) {
		id := newIdentity(&tokenResponse{
			AccessToken: "T",
			ExpiresIn:   json.RawMessage(`"not-a-number"`),
		}, map[string]any{"email": "a@b.com"})

		assert.Nil(t, id.ExpiresIn)
		assert.Equal(t, "T", id.AccessToken)
	})

	t.Run("empty scope yields no entries", func(t *testing.T) {
		id := newIdentity(&tokenResponse{AccessToken: "T"}, map[string]any{})
		assert.Empty(t, id.Scope)
	})
}
