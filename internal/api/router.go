package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundry-concierge/config"
	"laundry-concierge/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Inbound SMS webhook from the messaging gateway.
	r.POST("/webhook/sms", rateLimiter, handler.InboundSMS)

	// Admin / public API
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/availability", caching, handler.GetAvailability)
		api.PUT("/availability", handler.PutAvailability)
		api.POST("/orders", handler.CreateOrder)
		api.GET("/orders/:phone", handler.GetOrderByPhone)
	}

	return r
}
