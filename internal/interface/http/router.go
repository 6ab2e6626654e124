package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AlexHuggler/LCI-tracker/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(apiTokenMiddleware(cfg.HTTP.APIToken))
	{
		api.POST("/lsi", handler.CalculateLSI)
		api.POST("/dosing", handler.CalculateDosing)
		api.GET("/quantities/format", handler.FormatQuantity)

		api.GET("/pools", handler.ListPools)
		api.POST("/pools", handler.CreatePool)
		api.PUT("/pools/route", handler.ReorderRoute)
		api.GET("/pools/:id", handler.GetPool)
		api.PUT("/pools/:id/readings", handler.UpdateReadings)
		api.GET("/pools/:id/recommendations", handler.RecommendForPool)
		api.GET("/pools/:id/prefill", handler.Prefill)
		api.POST("/pools/:id/events", handler.LogService)
		api.GET("/pools/:id/profit", handler.PoolProfit)

		api.GET("/inventory", handler.ListInventory)
		api.PUT("/inventory", handler.UpsertInventory)

		api.GET("/reports/profit", handler.ProfitReport)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := append(requestAttrs(c),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		logger.Info("http request", attrs...)
	}
}

// requestAttrs tags a log line with the matched route and, on pool routes, the pool id.
func requestAttrs(c *gin.Context) []any {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	attrs := []any{"method", c.Request.Method, "route", route}
	if id := c.Param("id"); id != "" {
		attrs = append(attrs, "pool_id", id)
	}
	if day := c.Query("day"); day != "" {
		attrs = append(attrs, "day", day)
	}
	return attrs
}
