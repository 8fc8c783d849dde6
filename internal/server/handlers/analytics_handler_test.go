package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/repository/memory"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
)

func newTestRouter(store analytics.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := analytics.NewService(store, nil)
	handler := NewAnalyticsHandler(engine, nil, nil)

	r := gin.New()
	r.GET("/analytics/trending-products", handler.TrendingProducts)
	r.GET("/analytics/sales-summary", handler.SalesSummary)
	r.GET("/analytics/daily-trend", handler.DailySalesTrend)
	r.GET("/analytics/category-performance", handler.CategoryPerformance)
	r.GET("/analytics/stock-alerts", handler.StockAlerts)
	r.GET("/analytics/shop-performance", handler.ShopPerformance)
	r.POST("/ask", handler.Ask)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTrendingProductsEndpoint(t *testing.T) {
	store := memory.NewStore()
	store.AddSales(models.SaleEvent{
		ProductID: "p1", ProductName: "Face Cream", ShopID: "s1",
		Quantity: 5, Amount: 50, Price: 10,
		CreatedAt: time.Now().UTC().Add(-24 * time.Hour),
	})
	r := newTestRouter(store)

	rec := doGet(t, r, "/analytics/trending-products?days=7&limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var trends []models.ProductTrend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trends))
	require.Len(t, trends, 1)
	assert.Equal(t, "Face Cream", trends[0].ProductName)
	assert.Equal(t, int64(5), trends[0].TotalQuantity)
}

func TestSalesSummaryNoData(t *testing.T) {
	r := newTestRouter(memory.NewStore())

	rec := doGet(t, r, "/analytics/sales-summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["no_data"])
}

func TestInvalidWindowReturnsBadRequest(t *testing.T) {
	r := newTestRouter(memory.NewStore())

	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/analytics/sales-summary?days=0").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/analytics/trending-products?days=-4").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, r, "/analytics/stock-alerts?threshold=-1").Code)
}

func TestNonNumericParamReturnsBadRequest(t *testing.T) {
	r := newTestRouter(memory.NewStore())

	rec := doGet(t, r, "/analytics/daily-trend?days=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "days must be an integer")
}

type unavailableStore struct {
	*memory.Store
}

func (s *unavailableStore) ShopPerformance(context.Context, time.Time) ([]models.ShopStat, error) {
	return nil, fmt.Errorf("aggregate shops: %w", analytics.ErrStoreUnavailable)
}

func TestStoreFailureReturnsServiceUnavailable(t *testing.T) {
	r := newTestRouter(&unavailableStore{Store: memory.NewStore()})

	rec := doGet(t, r, "/analytics/shop-performance")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAskWithoutAssistant(t *testing.T) {
	r := newTestRouter(memory.NewStore())

	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
