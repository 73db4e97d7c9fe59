package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plantlens/internal/config"
	"plantlens/internal/database"
	"plantlens/internal/gemini"
	"plantlens/internal/handlers"
	"plantlens/internal/middlewares"
	"plantlens/internal/routes"
	"plantlens/internal/services"
)

// NewRouter wires handlers onto a gin engine. schemaService may be nil.
func NewRouter(cfg *config.Config, plantService *services.PlantService, schemaService *services.SchemaService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middlewares.RequestLogger(log))
	router.Use(middlewares.Recovery(log))
	router.Use(middlewares.CORS(cfg.CORSOrigins))

	plantHandler := handlers.NewPlantHandler(plantService, log)

	var schemaHandler *handlers.SchemaHandler
	if schemaService != nil {
		schemaHandler = handlers.NewSchemaHandler(schemaService, cfg.Database.Schema, log)
	}

	routes.RegisterRoutes(router, plantHandler, schemaHandler)
	return router
}

// NewServer builds the HTTP server. The returned cleanup function closes the
// database connection, if one was opened.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*http.Server, func(), error) {
	if cfg.Gemini.APIKey == "" {
		// not fatal: requests fail with a configuration error until a key is set
		log.Warn("GEMINI_API_KEY is not set")
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})
	plantService := services.NewPlantService(geminiClient, log)

	cleanup := func() {}
	var schemaService *services.SchemaService
	if cfg.Database.Configured() {
		catalog, closeFn, err := database.OpenCatalog(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanup = closeFn
		schemaService = services.NewSchemaService(catalog)
	}

	router := NewRouter(cfg, plantService, schemaService, log)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: an identification waits as long as the provider takes
	}

	return server, cleanup, nil
}
