// Package main is the entry point for the Data Plug Copilot service.
// @title Data Plug Copilot API
// @version 1.0
// @description Conversational travel companion backend with retrieval-personalized stopover suggestions
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dataplug/copilot-service/docs"
	"github.com/dataplug/copilot-service/internal/api/handlers"
	"github.com/dataplug/copilot-service/internal/api/middleware"
	"github.com/dataplug/copilot-service/internal/api/routes"
	"github.com/dataplug/copilot-service/internal/api/ws"
	"github.com/dataplug/copilot-service/internal/config"
	"github.com/dataplug/copilot-service/internal/core/sessionstore"
	"github.com/dataplug/copilot-service/internal/core/vectorstore"
	memorysession "github.com/dataplug/copilot-service/internal/infrastructure/sessionstore/memory"
	redissession "github.com/dataplug/copilot-service/internal/infrastructure/sessionstore/redis"
	memoryvector "github.com/dataplug/copilot-service/internal/infrastructure/vectorstore/memory"
	mongovector "github.com/dataplug/copilot-service/internal/infrastructure/vectorstore/mongo"
	"github.com/dataplug/copilot-service/internal/services/conversation"
	"github.com/dataplug/copilot-service/internal/services/embedding"
	"github.com/dataplug/copilot-service/internal/services/geocoding"
	"github.com/dataplug/copilot-service/internal/services/llm"
	"github.com/dataplug/copilot-service/internal/services/retrieval"
	"github.com/dataplug/copilot-service/internal/services/speech"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize session store using factory pattern
	sessionStore, err := createSessionStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	defer sessionStore.Close()

	// Initialize vector store using factory pattern
	vectorStore, err := createVectorStore(ctx, cfg.Vector)
	if err != nil {
		log.Fatalf("failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close(ctx)

	// Initialize collaborators
	embedder := embedding.NewClient(embedding.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
	})
	retriever := retrieval.NewService(vectorStore, embedder)

	llmService := llm.NewService(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		MaxTurns:    cfg.LLM.MaxTurns,
	})
	if llmService.IsDemoMode() {
		zlog.Warn().Msg("DASHSCOPE_API_KEY not set, running in demo mode")
	}

	synthesizer := speech.NewSynthesizer(speech.TTSConfig{
		APIKey:  cfg.TTS.APIKey,
		BaseURL: cfg.TTS.BaseURL,
		Model:   cfg.TTS.Model,
		Voice:   cfg.TTS.Voice,
	})

	recognizers := speech.NewService(speech.ASRConfig{
		APIKey:     cfg.ASR.APIKey,
		BaseURL:    cfg.ASR.BaseURL,
		Model:      cfg.ASR.Model,
		SampleRate: cfg.ASR.SampleRate,
		Language:   cfg.ASR.Language,
	})
	defer recognizers.CloseAll()

	geocoder := geocoding.NewService(geocoding.Config{
		BaseURL:      cfg.Geocoding.BaseURL,
		CountryCodes: cfg.Geocoding.CountryCodes,
		Timeout:      cfg.Geocoding.Timeout,
	})

	// Initialize conversation service
	conversationService := conversation.NewService(sessionStore, llmService, retriever, synthesizer, geocoder)

	// Seed the similarity index
	if indexed, err := retriever.InitializeUserData(ctx); err != nil {
		zlog.Warn().Err(err).Msg("failed to seed similarity index")
	} else {
		zlog.Info().Int("indexed", indexed).Msg("similarity index seeded")
	}

	// Background sweep of expired sessions
	stopCleanup := startCleanupLoop(sessionStore, cfg.SessionStore.CleanupInterval)
	defer stopCleanup()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, sessionStore, vectorStore, conversationService, retriever, recognizers)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createSessionStore creates a session store based on the configuration.
func createSessionStore(cfg *config.Config) (sessionstore.Store, error) {
	storeType := sessionstore.Type(cfg.SessionStore.Type)

	switch storeType {
	case sessionstore.TypeMemory:
		return memorysession.NewStore(memorysession.Config{
			TTL:             cfg.SessionStore.TTL,
			MaxSessions:     cfg.SessionStore.MaxSessions,
			CleanupInterval: cfg.SessionStore.CleanupInterval,
		}), nil
	case sessionstore.TypeRedis:
		return redissession.NewStore(redissession.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			TTL:         cfg.SessionStore.TTL,
			MaxSessions: cfg.SessionStore.MaxSessions,
		})
	default:
		log.Fatalf("unsupported session store type: %s", cfg.SessionStore.Type)
		return nil, nil
	}
}

// createVectorStore creates a vector store based on the configuration.
func createVectorStore(ctx context.Context, cfg config.VectorConfig) (vectorstore.Store, error) {
	storeType := vectorstore.Type(cfg.Type)

	switch storeType {
	case vectorstore.TypeMemory:
		return memoryvector.NewStore(), nil
	case vectorstore.TypeMongo:
		return mongovector.NewStore(ctx, mongovector.Config{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		log.Fatalf("unsupported vector store type: %s", cfg.Type)
		return nil, nil
	}
}

// startCleanupLoop periodically sweeps expired sessions. Returns a stop function.
func startCleanupLoop(store sessionstore.Store, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				removed, err := store.Cleanup(context.Background())
				if err != nil {
					zlog.Warn().Err(err).Msg("session cleanup failed")
				} else if removed > 0 {
					zlog.Info().Int("removed", removed).Msg("expired sessions removed")
				}
			}
		}
	}()
	return func() { close(done) }
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, sessionStore sessionstore.Store, vectorStore vectorstore.Store, conversationService *conversation.Service, retriever *retrieval.Service, recognizers *speech.Service) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()

	// Create handlers
	healthHandler := handlers.NewHealthHandler(sessionStore, vectorStore)
	chatHandler := handlers.NewChatHandler(conversationService)
	vectorHandler := handlers.NewVectorHandler(retriever)
	wsHandler := ws.NewHandler(conversationService, recognizers, ws.TimeoutConfig{
		UserResponse:  cfg.Timeout.UserResponse,
		CheckInterval: cfg.Timeout.CheckInterval,
	})

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler: healthHandler,
		ChatHandler:   chatHandler,
		VectorHandler: vectorHandler,
		WSHandler:     wsHandler,
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsCfg = middleware.CORSConfig{AllowOrigins: cfg.Server.CORSAllowedOrigins}
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsCfg)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
