package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"joinme-auth/internal/auth"
	"joinme-auth/internal/auth/credentials"
	"joinme-auth/internal/auth/provider"
	"joinme-auth/internal/auth/resolver"
	"joinme-auth/internal/logger"
	"joinme-auth/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	resolver          resolver.Resolver
	credentialService *credentials.Service
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	credentialService *credentials.Service,
) *Handler {
	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		resolver:          resolver,
		credentialService: credentialService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/logout", h.Logout)
}

// login is the challenge trigger: it binds a fresh state token to the
// request's property bag and hands the redirect to the provider.
func (h *Handler) login(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	props := auth.Properties{}
	if returnTo := c.Query("return_to"); isLocalPath(returnTo) {
		props[auth.PropRedirectURI] = returnTo
	}

	state := issueState(c, props)
	p.Challenge(c.Writer, c.Request, state, props)
}

// callback consumes the provider redirect: it restores the state token
// and property bag from the challenge cookie, runs the provider flow,
// then persists the session and sends the browser on its way.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	// The provider may answer the challenge with an error instead of a
	// code (user denied, expired consent screen). Send the user back to
	// start a fresh flow.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	expectedState, props := consumeState(c)

	res, err := p.Callback(c.Writer, c.Request, provider.Callback{
		Code:          code,
		State:         c.Query("state"),
		ExpectedState: expectedState,
		Properties:    props,
	})
	if err != nil {
		h.callbackError(c, providerName, err)
		return
	}

	if !res.SignIn {
		// A hook took over the response; nothing left to do here.
		if !c.Writer.Written() {
			c.Status(http.StatusOK)
		}
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), res.Ticket.Identity)
	if err != nil {
		logger.Error("failed to resolve user", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		UserID:    userID,
		Email:     res.Ticket.Identity.Email,
		Claims:    res.Ticket.Identity.Claims,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to persist session",
		})
		return
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login success", map[string]any{
		"provider": providerName,
		"user_id":  userID,
		"ip":       c.ClientIP(),
	})

	target := res.RedirectURI
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

// callbackError maps the flow's terminal outcomes onto HTTP responses.
func (h *Handler) callbackError(c *gin.Context, providerName string, err error) {
	logger.Warn("oauth callback failed", map[string]any{
		"provider": providerName,
		"error":    err.Error(),
	})

	switch {
	case errors.Is(err, provider.ErrInvalidState):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
	case errors.Is(err, provider.ErrCancelled):
		c.AbortWithStatus(http.StatusRequestTimeout)
	default:
		// Token exchange, profile fetch, or a host hook rejected the login.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
	}
}

func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// Best effort: an expired or missing session is already logged out.
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
		logger.Info("logout", map[string]any{
			"session_id": cookie.Value,
			"ip":         c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}

// isLocalPath accepts same-site absolute paths only, so the property bag
// cannot be turned into an open redirect.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}
