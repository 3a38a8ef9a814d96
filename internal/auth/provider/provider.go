package provider

import (
	"errors"
	"net/http"

	"joinme-auth/internal/auth"
)

// Terminal flow outcomes. Each callback surfaces exactly one of these to
// the handler; the flow never retries internally. Implementations wrap
// them with fmt.Errorf("%w: ...") so errors.Is still matches.
var (
	// ErrInvalidState means the callback state token did not match the one
	// issued at challenge time. The flow aborts before any network call.
	ErrInvalidState = errors.New("oauth: invalid state")

	// ErrTokenExchange means the token endpoint returned a non-success
	// status or the call failed. The profile endpoint is never contacted.
	ErrTokenExchange = errors.New("oauth: token exchange failed")

	// ErrProfileFetch means the profile endpoint returned a non-success
	// status or the call failed.
	ErrProfileFetch = errors.New("oauth: profile fetch failed")

	// ErrCancelled means the host cancelled the request mid-flow.
	ErrCancelled = errors.New("oauth: flow cancelled")
)

// Callback carries everything a provider needs to complete one
// authorization-code round trip.
type Callback struct {
	Code          string          // authorization code from the provider
	State         string          // state parameter received on the callback
	ExpectedState string          // state token issued at challenge time
	Properties    auth.Properties // property bag bound to the challenge
}

// OAuthProvider defines the contract every external auth provider must
// implement. Implementations return identity facts only and must not
// perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "joinme").
	Name() string

	// Challenge issues the redirect to the provider's authorize endpoint
	// for the given state token, via the provider's ApplyRedirect hook.
	Challenge(w http.ResponseWriter, r *http.Request, state string, props auth.Properties)

	// Callback validates state, exchanges the code, fetches the profile,
	// builds the identity and runs the provider's hooks. The returned
	// error, if any, matches one of the sentinel errors above or came
	// from a host-supplied hook.
	Callback(w http.ResponseWriter, r *http.Request, cb Callback) (*auth.Result, error)
}
