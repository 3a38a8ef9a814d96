package app

import (
	"context"

	"joinme-auth/internal/auth/credentials"
	"joinme-auth/internal/auth/handler"
	"joinme-auth/internal/auth/provider"
	"joinme-auth/internal/auth/provider/joinme"
	"joinme-auth/internal/auth/resolver"
	"joinme-auth/internal/config"
	"joinme-auth/internal/middleware"
	"joinme-auth/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	identityResolver := resolver.NewDBResolver(infra.DB)
	credentialService := credentials.NewService(infra.DB)

	joinmeProvider, err := joinme.New(joinme.Options{
		ClientID:     cfg.JoinMeClientID,
		ClientSecret: cfg.JoinMeClientSecret,
		RedirectURL:  cfg.JoinMeRedirectURL,
		Scopes:       cfg.JoinMeScopes,
		AuthorizeURL: cfg.JoinMeAuthorizeURL,
		TokenURL:     cfg.JoinMeTokenURL,
		ProfileURL:   cfg.JoinMeProfileURL,
		Hooks: joinme.Hooks{
			// Stamp the provider into the claim set before the ticket is
			// built; downstream services read it from the session.
			Authenticated: func(_ context.Context, ac *joinme.AuthenticatedContext) error {
				ac.Identity.Claims["provider"] = ac.Identity.Provider
				return nil
			},
		},
	})
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(joinmeProvider)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		identityResolver,
		credentialService,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api.GET("/me", func(c *gin.Context) {
		sess, ok := middleware.SessionFromContext(c.Request.Context())
		if !ok {
			c.JSON(401, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(200, gin.H{
			"user_id": sess.UserID,
			"email":   sess.Email,
			"claims":  sess.Claims,
		})
	})

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
