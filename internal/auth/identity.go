package auth

import "time"

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
//
// join.me does not issue a stable user id of its own, so UserID is
// synthesized by the provider from the account email. A user who changes
// the email on their provider account becomes a new local user; that is
// accepted behavior, not a defect.
type Identity struct {
	Provider     string         // e.g. "joinme"
	UserID       string         // synthetic stable identifier; empty when email is unavailable
	Email        string         // account email, empty if the provider omitted it
	FullName     string         // display name, empty if the provider omitted it
	AccountType  string         // subscription tier, empty if the provider omitted it
	AccessToken  string         // opaque provider access token
	RefreshToken string         // opaque provider refresh token, empty if not issued
	ExpiresIn    *time.Duration // access token lifetime; nil when absent or unparsable
	Scope        []string       // granted scopes in provider order, possibly empty

	// Claims is the claim set persisted with the session. Providers seed it
	// from the fields above; hosts may enrich or replace entries from the
	// Authenticated hook before the ticket is built.
	Claims map[string]string
}
