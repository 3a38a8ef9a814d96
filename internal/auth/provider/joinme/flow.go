package joinme

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"joinme-auth/internal/auth"
	"joinme-auth/internal/auth/provider"
	"joinme-auth/internal/logger"
)

// Challenge builds the authorize URL for the given state token and hands
// it to the ApplyRedirect hook. The default hook answers with an HTTP 302.
func (p *Provider) Challenge(w http.ResponseWriter, r *http.Request, state string, props auth.Properties) {
	p.hooks.ApplyRedirect(&ApplyRedirectContext{
		Response:    w,
		Request:     r,
		RedirectURI: p.AuthCodeURL(state),
		Properties:  props,
	})
}

// Callback drives the rest of the round trip: state validation, token
// exchange, profile fetch, identity mapping and the Authenticated and
// ReturnEndpoint hooks, in that order. Every failure is terminal for the
// request; the host decides the user-visible behavior.
//
// A state mismatch aborts before any network call. A failed token
// exchange prevents the profile fetch. Cancellation of the request
// context surfaces as provider.ErrCancelled.
func (p *Provider) Callback(w http.ResponseWriter, r *http.Request, cb provider.Callback) (*auth.Result, error) {
	ctx := r.Context()

	if !validState(cb.State, cb.ExpectedState) {
		return nil, fmt.Errorf("%w: callback state does not match challenge", provider.ErrInvalidState)
	}

	tok, err := p.exchangeCode(ctx, cb.Code)
	if err != nil {
		return nil, p.failure(ctx, provider.ErrTokenExchange, err)
	}

	profile, err := p.fetchProfile(ctx, tok.AccessToken)
	if err != nil {
		return nil, p.failure(ctx, provider.ErrProfileFetch, err)
	}

	identity := newIdentity(tok, profile)

	logger.Info("joinme identity built", map[string]any{
		"user_id_present": identity.UserID != "",
		"email_present":   identity.Email != "",
		"has_expiry":      identity.ExpiresIn != nil,
		"scope_count":     len(identity.Scope),
	})

	props := cb.Properties
	if props == nil {
		props = auth.Properties{}
	}

	ac := &AuthenticatedContext{Identity: identity, Properties: props}
	if err := p.hooks.Authenticated(ctx, ac); err != nil {
		return nil, err
	}

	rc := &ReturnEndpointContext{
		Ticket: &auth.Ticket{
			Identity:   ac.Identity,
			Properties: ac.Properties,
		},
		RedirectURI: ac.Properties[auth.PropRedirectURI],
		SignIn:      true,
	}
	if err := p.hooks.ReturnEndpoint(ctx, rc); err != nil {
		return nil, err
	}

	return &auth.Result{
		Ticket:      rc.Ticket,
		RedirectURI: rc.RedirectURI,
		SignIn:      rc.SignIn,
	}, nil
}

// failure classifies a failed outbound call, preferring the cancelled
// outcome when the host's request context was the cause.
func (p *Provider) failure(ctx context.Context, kind, cause error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", provider.ErrCancelled, ctx.Err())
	}
	logger.Error("joinme flow failed", map[string]any{
		"kind":  kind.Error(),
		"error": cause.Error(),
	})
	return fmt.Errorf("%w: %v", kind, cause)
}

func validState(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// tokenResponse is the raw token-endpoint payload. join.me encodes
// expires_in as a decimal-seconds string, so it is kept raw here and
// parsed leniently by the identity mapper.
type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    json.RawMessage `json:"expires_in"`
	Scope        string          `json:"scope"`
}

func (p *Provider) exchangeCode(ctx context.Context, code string) (*tokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.oauthConfig.RedirectURL)
	form.Set("client_id", p.oauthConfig.ClientID)
	form.Set("client_secret", p.oauthConfig.ClientSecret)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.oauthConfig.Endpoint.TokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("token response decode failed: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}
	return &tok, nil
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("profile endpoint returned %s", resp.Status)
	}

	var profile map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profile response decode failed: %w", err)
	}
	return profile, nil
}
