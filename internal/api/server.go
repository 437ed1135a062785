package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"productai/internal/api/handlers"
	"productai/internal/api/middleware"
	"productai/internal/config"
	"productai/internal/database"
	"productai/internal/generator"
	"productai/internal/logger"
	"productai/internal/pipeline"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher pipeline.EventPublisher) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Components (dependency-injected, no singletons)
	gen := generator.NewClient(cfg.GeminiAPIKey, logger)
	pipe := pipeline.New(db, publisher, logger)

	productHandler := handlers.NewProductHandler(logger, db, gen)
	settingsHandler := handlers.NewSettingsHandler(logger, db, handlers.DefaultStoreFactory(logger))
	shopifyHandler := handlers.NewShopifyHandler(db, logger, cfg)
	webhookHandler := handlers.NewWebhookHandler(cfg, logger, db, gen, pipe)

	// Routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("/generate", productHandler.Generate)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.PUT("", settingsHandler.Update)
		}

		shopifyGroup := v1.Group("/shopify")
		{
			shopifyGroup.POST("/install", shopifyHandler.Install)
			shopifyGroup.GET("/callback", shopifyHandler.Callback)
			shopifyGroup.POST("/webhooks", shopifyHandler.RegisterWebhooks)
		}
	}

	// POST only; anything else on this path falls through to gin's 404.
	router.POST("/webhooks/products/create", webhookHandler.ProductsCreate)

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin router for handler-level tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
