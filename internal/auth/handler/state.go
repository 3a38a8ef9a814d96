package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"joinme-auth/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

// stateEnvelope binds the CSRF state token to the property bag issued at
// challenge time, so the callback can restore both from one cookie.
type stateEnvelope struct {
	Token      string          `json:"token"`
	Properties auth.Properties `json:"properties,omitempty"`
}

// issueState generates a state token, stores it with the property bag in
// a short-lived cookie, and returns the token for the authorize URL.
func issueState(c *gin.Context, props auth.Properties) string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	token := base64.RawURLEncoding.EncodeToString(b)

	payload, _ := json.Marshal(stateEnvelope{
		Token:      token,
		Properties: props,
	})

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})

	return token
}

// consumeState reads and clears the challenge cookie. A missing or
// undecodable cookie yields an empty token, which the flow rejects as an
// invalid state.
func consumeState(c *gin.Context) (token string, props auth.Properties) {
	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" {
		return "", nil
	}

	// One challenge, one callback.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", nil
	}

	var env stateEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", nil
	}
	return env.Token, env.Properties
}
