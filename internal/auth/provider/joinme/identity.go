package joinme

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"joinme-auth/internal/auth"
)

// Profile payload keys, per https://developer.join.me/docs/read/users.
const (
	profileKeyEmail       = "email"
	profileKeyFullName    = "fullName"
	profileKeyAccountType = "subscriptionType"
)

// newIdentity maps a raw token response and profile payload into a
// normalized identity. It never fails: missing or malformed optional
// fields leave the corresponding attributes unset. The provider's data
// completeness is outside this adapter's control.
func newIdentity(tok *tokenResponse, profile map[string]any) *auth.Identity {
	id := &auth.Identity{
		Provider:     providerName,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    parseExpiresIn(tok.ExpiresIn),
		Scope:        splitScope(tok.Scope),
		Email:        stringField(profile, profileKeyEmail),
		FullName:     stringField(profile, profileKeyFullName),
		AccountType:  stringField(profile, profileKeyAccountType),
	}
	id.UserID = syntheticUserID(id.Email)
	id.Claims = defaultClaims(id)
	return id
}

// syntheticUserID derives a stable local identifier from the account
// email, because join.me does not supply one in its profile payload.
// md5 is used as a 32-hex-char fingerprint, not for security.
func syntheticUserID(email string) string {
	if email == "" {
		return ""
	}
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}

// parseExpiresIn accepts the provider's decimal-seconds string (quoted or
// bare). Absent, unparsable or negative values yield nil rather than an
// error; expiry is advisory and must not fail the flow.
func parseExpiresIn(raw json.RawMessage) *time.Duration {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs < 0 {
		return nil
	}
	d := time.Duration(secs) * time.Second
	return &d
}

// splitScope turns the space-delimited scope string into ordered entries.
func splitScope(scope string) []string {
	return strings.Fields(scope)
}

// stringField looks up a key in the profile payload, returning "" when
// the key is missing or not a string.
func stringField(profile map[string]any, key string) string {
	v, ok := profile[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func defaultClaims(id *auth.Identity) map[string]string {
	claims := make(map[string]string)
	if id.UserID != "" {
		claims["sub"] = id.UserID
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}
	if id.FullName != "" {
		claims["name"] = id.FullName
	}
	if id.AccountType != "" {
		claims["account_type"] = id.AccountType
	}
	return claims
}
