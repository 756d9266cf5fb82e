// Package routes defines the HTTP routes for the Data Plug Copilot service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dataplug/copilot-service/internal/api/handlers"
	"github.com/dataplug/copilot-service/internal/api/middleware"
	"github.com/dataplug/copilot-service/internal/api/ws"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler *handlers.HealthHandler
	ChatHandler   *handlers.ChatHandler
	VectorHandler *handlers.VectorHandler
	WSHandler     *ws.Handler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	r.NoRoute(middleware.NotFound())
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.MethodNotAllowed())

	// Health check routes
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/live", cfg.HealthHandler.Live)

	api := r.Group("/api/v1")
	{
		chat := api.Group("/chat")
		{
			chat.POST("/start", cfg.ChatHandler.StartChat)
			chat.POST("/message", cfg.ChatHandler.SendMessage)

			session := chat.Group("/session/:sessionId")
			{
				session.GET("", cfg.ChatHandler.GetSession)
				session.GET("/ttl", cfg.ChatHandler.GetSessionTTL)
				session.POST("/extend", cfg.ChatHandler.ExtendSession)
				session.DELETE("", cfg.ChatHandler.DeleteSession)
			}

			cache := chat.Group("/cache")
			{
				cache.GET("/stats", cfg.ChatHandler.CacheStats)
				cache.POST("/cleanup", cfg.ChatHandler.CleanupCache)
			}
		}

		vector := api.Group("/vector")
		{
			vector.POST("/documents", cfg.VectorHandler.AddDocument)
			vector.DELETE("/documents/:category", cfg.VectorHandler.DeleteByCategory)
			vector.POST("/initialize", cfg.VectorHandler.Initialize)
			vector.GET("/stats", cfg.VectorHandler.Stats)
			vector.POST("/search", cfg.VectorHandler.Search)
		}
	}

	// Bidirectional endpoints; session id may come as a path segment or
	// a session_id query parameter.
	r.GET("/ws/chat", cfg.WSHandler.Chat)
	r.GET("/ws/chat/:sessionId", cfg.WSHandler.Chat)
	r.GET("/ws/voice", cfg.WSHandler.Voice)
	r.GET("/ws/voice/:sessionId", cfg.WSHandler.Voice)
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, corsCfg middleware.CORSConfig) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(corsCfg))
	r.Use(gin.Recovery())

	// Setup routes
	Setup(r, cfg)
}
