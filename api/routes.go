package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"xyzrss/api/feeds"
	"xyzrss/api/health"
	"xyzrss/api/middleware"
	"xyzrss/api/types"
	"xyzrss/api/version"
	_ "xyzrss/docs/swagger"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	cfg := deps.Config

	// Feed routes: rate limited per client, responses cached for the feed
	// TTL so repeated polls inside the window never reach the origin.
	feedGroup := engine.Group("/rss")
	if cfg.RateLimiting.Enabled {
		feedGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized,
			cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst))
	}
	if deps.Cache != nil {
		feedGroup.Use(middleware.ResponseCache(middleware.CacheConfig{
			Cache:   deps.Cache,
			TTL:     cfg.Feed.CacheTTL,
			Enabled: cfg.Cache.Enabled,
		}))
	}
	feeds.RegisterRoutes(feedGroup, deps)

	return nil
}
