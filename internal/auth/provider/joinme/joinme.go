package joinme

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

const providerName = "joinme"

// join.me public API endpoints. Overridable through Options for tests.
const (
	defaultAuthorizeURL = "https://secure.join.me/api/public/v1/auth/oauth2"
	defaultTokenURL     = "https://secure.join.me/api/public/v1/auth/token"
	defaultProfileURL   = "https://api.join.me/v1/user"
)

// Options configures the join.me provider. ClientID, ClientSecret and
// RedirectURL are required; everything else has a working default.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	AuthorizeURL string
	TokenURL     string
	ProfileURL   string

	// HTTPClient performs the token exchange and profile fetch. Timeout
	// and proxy policy belong to the host; nil means http.DefaultClient.
	HTTPClient *http.Client

	// Hooks customize the flow; zero-value members keep default behavior.
	Hooks Hooks
}

// Provider implements the authorization-code round trip against join.me.
// It returns identity facts only; no user or session decisions are made here.
type Provider struct {
	oauthConfig *oauth2.Config
	profileURL  string
	client      *http.Client
	hooks       Hooks
}

// New validates options and builds a join.me provider.
func New(opts Options) (*Provider, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" || opts.RedirectURL == "" {
		return nil, errors.New("joinme oauth config missing required fields")
	}

	authorizeURL := opts.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = defaultAuthorizeURL
	}
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	profileURL := opts.ProfileURL
	if profileURL == "" {
		profileURL = defaultProfileURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	oauthCfg := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authorizeURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: opts.Scopes,
	}

	return &Provider{
		oauthConfig: oauthCfg,
		profileURL:  profileURL,
		client:      client,
		hooks:       opts.Hooks.normalized(),
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the provider's authorize URL carrying the client id,
// redirect URI, scopes and the CSRF state token.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}
