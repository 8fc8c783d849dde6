package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
	"github.com/pramodporuwa/shopsense/internal/service/assistant"
)

const (
	defaultWindowDays = 30
	defaultLimit      = 10
	defaultThreshold  = 10
)

// AnalyticsHandler exposes the aggregation engine and the assistant over HTTP.
type AnalyticsHandler struct {
	engine    *analytics.Service
	assistant *assistant.Service
	logger    *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter. The assistant may
// be nil; /ask then responds 503.
func NewAnalyticsHandler(engine *analytics.Service, assistant *assistant.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{engine: engine, assistant: assistant, logger: logger}
}

// TrendingProducts serves GET /analytics/trending-products.
func (h *AnalyticsHandler) TrendingProducts(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultWindowDays)
	if !ok {
		return
	}
	limit, ok := h.intQuery(c, "limit", defaultLimit)
	if !ok {
		return
	}

	trends, err := h.engine.TrendingProducts(c.Request.Context(), days, limit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

// SalesSummary serves GET /analytics/sales-summary.
func (h *AnalyticsHandler) SalesSummary(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultWindowDays)
	if !ok {
		return
	}

	summary, err := h.engine.SalesSummary(c.Request.Context(), days)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"no_data": true})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DailySalesTrend serves GET /analytics/daily-trend.
func (h *AnalyticsHandler) DailySalesTrend(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultWindowDays)
	if !ok {
		return
	}

	trend, err := h.engine.DailySalesTrend(c.Request.Context(), days)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// CategoryPerformance serves GET /analytics/category-performance.
func (h *AnalyticsHandler) CategoryPerformance(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultWindowDays)
	if !ok {
		return
	}

	stats, err := h.engine.CategoryPerformance(c.Request.Context(), days)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StockAlerts serves GET /analytics/stock-alerts.
func (h *AnalyticsHandler) StockAlerts(c *gin.Context) {
	threshold, ok := h.intQuery(c, "threshold", defaultThreshold)
	if !ok {
		return
	}

	items, err := h.engine.StockAlerts(c.Request.Context(), threshold)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ShopPerformance serves GET /analytics/shop-performance.
func (h *AnalyticsHandler) ShopPerformance(c *gin.Context) {
	days, ok := h.intQuery(c, "days", defaultWindowDays)
	if !ok {
		return
	}

	stats, err := h.engine.ShopPerformance(c.Request.Context(), days)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Ask serves POST /ask.
func (h *AnalyticsHandler) Ask(c *gin.Context) {
	if h.assistant == nil || !h.assistant.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = c.ClientIP()
	}

	answer, err := h.assistant.Answer(c.Request.Context(), userID, req.Question)
	if err != nil {
		h.logger.Error("assistant failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to answer question"})
		return
	}

	c.JSON(http.StatusOK, models.AskResponse{Question: req.Question, Answer: answer})
}

func (h *AnalyticsHandler) intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return value, true
}

func (h *AnalyticsHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, analytics.ErrStoreUnavailable):
		h.logger.Error("analytics store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics store unavailable"})
	default:
		h.logger.Error("analytics query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
