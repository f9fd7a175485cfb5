package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loggate/internal/chat"
	"loggate/internal/corpus"
	"loggate/internal/db"
	"loggate/internal/handlers"
	"loggate/internal/handlers/api"
	"loggate/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, store *corpus.Store, router *chat.Router) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	// Initialize handlers
	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
	if err != nil {
		return err
	}
	dashboardHandler := handlers.NewDashboardHandler(database, s.Cfg, store)
	keyHandler := handlers.NewKeyHandler(database, s.Cfg)
	userHandler := handlers.NewUserHandler(database, s.Cfg)
	corpusHandler := handlers.NewCorpusHandler(store)
	probeHandler := handlers.NewProbeHandler(database)
	webhookHandler := handlers.NewWebhookHandler(router, s.Cfg)

	// Auth routes
	s.App.Get("/login", authHandler.LoginForm)
	s.App.Post("/login", authHandler.Login)
	s.App.Get("/logout", authHandler.Logout)
	if authHandler.OIDCEnabled() {
		s.App.Get("/auth/login", authHandler.OIDCLogin)
		s.App.Get("/auth/callback", authHandler.OIDCCallback)
	} else {
		log.Println("OIDC login disabled. Set OIDC_ISSUER to enable.")
	}

	// Dashboard routes (admin session required)
	s.App.Get("/", authMiddleware.RequireAdmin, dashboardHandler.Index)
	s.App.Get("/users", authMiddleware.RequireAdmin, dashboardHandler.Users)
	s.App.Post("/keys", authMiddleware.RequireAdmin, keyHandler.Create)
	s.App.Post("/keys/:token/delete", authMiddleware.RequireAdmin, keyHandler.Delete)
	s.App.Post("/users/grant", authMiddleware.RequireAdmin, userHandler.Grant)
	s.App.Post("/users/:id/revoke", authMiddleware.RequireAdmin, userHandler.Revoke)
	s.App.Post("/users/:id/reset", authMiddleware.RequireAdmin, userHandler.Reset)
	s.App.Post("/corpus/reload", authMiddleware.RequireAdmin, corpusHandler.Reload)

	// JSON API routes (static token auth)
	apiKeyHandler := api.NewKeyHandler(database, s.Cfg)
	apiUserHandler := api.NewUserHandler(database, s.Cfg)
	apiStatsHandler := api.NewStatsHandler(database, store)

	apiGroup := s.App.Group("/api/v1", authMiddleware.RequireToken)
	apiGroup.Get("/keys", apiKeyHandler.List)
	apiGroup.Post("/keys", apiKeyHandler.Create)
	apiGroup.Delete("/keys/:token", apiKeyHandler.Delete)
	apiGroup.Get("/users", apiUserHandler.List)
	apiGroup.Post("/users/grant", apiUserHandler.Grant)
	apiGroup.Delete("/users/:id", apiUserHandler.Revoke)
	apiGroup.Post("/users/:id/reset", apiUserHandler.Reset)
	apiGroup.Get("/stats/searches", apiStatsHandler.Searches)
	apiGroup.Get("/corpus", apiStatsHandler.Corpus)
	apiGroup.Post("/corpus/reload", apiStatsHandler.ReloadCorpus)

	// Inbound chat updates from the gateway
	s.App.Post("/webhook/chat", webhookHandler.Receive)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
