package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrorHandler()

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	e.GET("/health", h.Health)

	api := e.Group("/api")

	// Optional API key authentication; /health stays open
	if cfg.APIKey != "" {
		api.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}

	conf := api.Group("/config")
	conf.GET("/chains", h.ListChains)
	conf.GET("/chains/:chainId", h.GetChain)
	conf.GET("/tokens", h.ListTokens)
	conf.GET("/tokens/search", h.SearchTokens)
	conf.GET("/fees", h.FeeConfig)

	// Quote and validate-token fan out to upstream aggregators and RPC nodes
	upstreamLimit := rateLimiter(rateOrDefault(cfg.QuoteRate, 5), 10)

	swap := api.Group("/swap")
	swap.POST("/quote", h.Quote, upstreamLimit)
	swap.POST("/validate-token", h.ValidateToken, upstreamLimit)
	swap.POST("/calculate-fee", h.CalculateFee)
	swap.POST("/record", h.RecordSwap)
	swap.PATCH("/record/:id/status", h.UpdateSwapStatus)
	swap.GET("/history", h.History)
	swap.GET("/stats", h.Stats)

	aigroup := api.Group("/ai")
	aigroup.Use(rateLimiter(0.2, 2)) // 1 request every 5 seconds
	aigroup.POST("/ask", h.AIAsk)

	flagGroup := api.Group("/flags")
	flagGroup.GET("", h.FlagsList)
	flagGroup.POST("", h.FlagsUpsert)
	flagGroup.GET("/:key", h.FlagsGet)
	flagGroup.PUT("/:key", h.FlagsUpdate)
	flagGroup.DELETE("/:key", h.FlagsDelete)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, Envelope{Error: "not found"})
	})
}

func rateLimiter(r float64, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(r),
		Burst:     burst,
		ExpiresIn: 2 * time.Minute,
	}))
}

func rateOrDefault(r, def float64) float64 {
	if r <= 0 {
		return def
	}
	return r
}
