package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. The webhook
// handler is optional and only mounted when WhatsApp is configured. reportsDir
// is served statically so report links in outbound messages resolve.
func New(analyticsHandler *handlers.AnalyticsHandler, webhookHandler *handlers.WebhookHandler, reportsDir string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	a := r.Group("/analytics")
	a.GET("/trending-products", analyticsHandler.TrendingProducts)
	a.GET("/sales-summary", analyticsHandler.SalesSummary)
	a.GET("/daily-trend", analyticsHandler.DailySalesTrend)
	a.GET("/category-performance", analyticsHandler.CategoryPerformance)
	a.GET("/stock-alerts", analyticsHandler.StockAlerts)
	a.GET("/shop-performance", analyticsHandler.ShopPerformance)

	r.POST("/ask", analyticsHandler.Ask)

	if webhookHandler != nil {
		r.GET("/webhook", webhookHandler.Verify)
		r.POST("/webhook", webhookHandler.Receive)
		r.POST("/send-message", webhookHandler.SendMessage)
	}

	if reportsDir != "" {
		r.Static("/reports", reportsDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
