package joinme

import (
	"context"
	"net/http"

	"joinme-auth/internal/auth"
)

// AuthenticatedContext is handed to the Authenticated hook once per
// successful callback, after the identity is built and before the ticket
// is assembled. The hook may enrich Identity.Claims or reject the login
// by returning an error.
type AuthenticatedContext struct {
	Identity   *auth.Identity
	Properties auth.Properties
}

// ReturnEndpointContext is handed to the ReturnEndpoint hook just before
// control returns to the host pipeline. The hook may change RedirectURI
// or clear SignIn to cancel the default cookie flow.
type ReturnEndpointContext struct {
	Ticket      *auth.Ticket
	RedirectURI string
	SignIn      bool
}

// ApplyRedirectContext is handed to the ApplyRedirect hook when a
// challenge must be issued. It is consumed exactly once to produce the
// redirect to the provider's authorize endpoint.
type ApplyRedirectContext struct {
	Response    http.ResponseWriter
	Request     *http.Request
	RedirectURI string
	Properties  auth.Properties
}

// Hooks bundles the three customization points of the flow. Each member
// is invoked exactly once per flow instance, at its fixed stage, and the
// flow waits for it to return before proceeding. Nil members fall back
// to the defaults applied by normalized.
type Hooks struct {
	// Authenticated runs after the identity is built. Default: no-op.
	Authenticated func(ctx context.Context, ac *AuthenticatedContext) error

	// ReturnEndpoint runs after the ticket is built, before the host
	// persists the session. Default: no-op.
	ReturnEndpoint func(ctx context.Context, rc *ReturnEndpointContext) error

	// ApplyRedirect issues the challenge redirect. Default: HTTP 302 to
	// the authorize URL.
	ApplyRedirect func(rc *ApplyRedirectContext)
}

// normalized fills nil members with safe defaults without breaking callers.
func (h Hooks) normalized() Hooks {
	if h.Authenticated == nil {
		h.Authenticated = func(context.Context, *AuthenticatedContext) error { return nil }
	}
	if h.ReturnEndpoint == nil {
		h.ReturnEndpoint = func(context.Context, *ReturnEndpointContext) error { return nil }
	}
	if h.ApplyRedirect == nil {
		h.ApplyRedirect = func(rc *ApplyRedirectContext) {
			http.Redirect(rc.Response, rc.Request, rc.RedirectURI, http.StatusFound)
		}
	}
	return h
}
