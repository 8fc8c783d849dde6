package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/repository/memory"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
)

func newTestDispatcher(t *testing.T, reporting ReportGenerator) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine := analytics.NewService(store, nil)
	return NewService(engine, reporting, nil), store
}

func seedSales(store *memory.Store) {
	recent := time.Now().UTC().Add(-24 * time.Hour)
	store.AddSales(
		models.SaleEvent{ProductID: "p1", ProductName: "Face Cream", ShopID: "s1", Quantity: 5, Amount: 50, Price: 10, CreatedAt: recent},
		models.SaleEvent{ProductID: "p2", ProductName: "Lip Balm", ShopID: "s1", Quantity: 2, Amount: 8, Price: 4, CreatedAt: recent},
	)
	store.PutInventory(
		models.InventoryItem{ID: "p1", ProductName: "Face Cream", Quantity: 3, Price: 10, InventoryCategoryID: "skincare"},
		models.InventoryItem{ID: "p2", ProductName: "Lip Balm", Quantity: 40, Price: 4, InventoryCategoryID: "skincare"},
	)
	store.PutShops(models.Shop{ID: "s1", ShopName: "Downtown"})
}

func TestHandleCommandSummary(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/summary 7"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Sales last 7 days")
	assert.Contains(t, reply, "Total: 58.00")
	assert.Contains(t, reply, "Orders: 2 | Items: 7")
}

func TestHandleCommandSummaryEmptyWindow(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/summary"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "No sales recorded in the last 30 days.", reply)
}

func TestHandleCommandTrending(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/trending 7 5"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "1. Face Cream - 5 units (50.00), stock 3")
	assert.Contains(t, reply, "2. Lip Balm - 2 units (8.00), stock 40")
}

func TestHandleCommandStock(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/stock 5"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Items at or below 5 units")
	assert.Contains(t, reply, "- Face Cream: 3 left")
	assert.NotContains(t, reply, "Lip Balm")
}

func TestHandleCommandShops(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/shops"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Downtown: 58.00, 2 orders, avg 29.00")
}

func TestHandleCommandCategories(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/categories"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "skincare: 58.00, 7 items, 2 products")
}

func TestHandleCommandDaily(t *testing.T) {
	svc, store := newTestDispatcher(t, nil)
	seedSales(store)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/daily"), "user-1")
	require.NoError(t, err)
	day := time.Now().UTC().Add(-24 * time.Hour).Format("2006-01-02")
	assert.Contains(t, reply, day+": 58.00 across 2 orders")
}

func TestHandleCommandHelp(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/help"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "/summary")
	assert.Contains(t, reply, "/report")
}

func TestHandleCommandBadArgument(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand("/summary soon"), "user-1")
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestHandleCommandInvalidWindow(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand("/summary -3"), "user-1")
	require.ErrorIs(t, err, analytics.ErrInvalidArgument)
}

func TestHandleCommandUnknown(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand("/weather"), "user-1")
	require.ErrorIs(t, err, ErrUnsupportedCommand)
}

type stubReporter struct {
	lastWindow int
	err        error
}

func (r *stubReporter) Generate(_ context.Context, windowDays int) (*models.Report, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastWindow = windowDays
	return &models.Report{WindowDays: windowDays}, nil
}

func (r *stubReporter) FormatSummaryText(report *models.Report) string {
	return fmt.Sprintf("report for %d days", report.WindowDays)
}

func TestHandleCommandReport(t *testing.T) {
	reporter := &stubReporter{}
	svc, _ := newTestDispatcher(t, reporter)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/report 14"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "report for 14 days", reply)
	assert.Equal(t, 14, reporter.lastWindow)
}

func TestHandleCommandReportNotConfigured(t *testing.T) {
	svc, _ := newTestDispatcher(t, nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/report"), "user-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "not configured")
}

func TestHandleCommandReportFailure(t *testing.T) {
	reporter := &stubReporter{err: errors.New("render blew up")}
	svc, _ := newTestDispatcher(t, reporter)

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand("/report"), "user-1")
	require.Error(t, err)
}
