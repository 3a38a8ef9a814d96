package auth

// Ticket pairs an authenticated identity with its property bag. It is
// what the flow hands back to the host pipeline for session persistence.
type Ticket struct {
	Identity   *Identity
	Properties Properties
}

// Result is the outcome of a completed callback, after all hooks have run.
type Result struct {
	Ticket *Ticket

	// RedirectURI is where the browser is sent once the session is written.
	// Empty means the host's default landing page.
	RedirectURI string

	// SignIn is true when the host should persist the session and issue the
	// cookie. The ReturnEndpoint hook clears it to take over the response.
	SignIn bool
}
