package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const (
	defaultWindowDays = 30
	defaultLimit      = 10
	defaultThreshold  = 10

	maxReplyRows = 8
)

const helpText = `Available commands:
/summary [days] - sales totals for the window
/trending [days] [limit] - top products by units sold
/stock [threshold] - low stock alerts
/daily [days] - day-by-day sales
/shops [days] - performance per shop
/categories [days] - performance per category
/report [days] - generate and deliver the full report
/help - this message`

// ReportGenerator is the slice of the reporting service the dispatcher needs
// for the /report command.
type ReportGenerator interface {
	Generate(ctx context.Context, windowDays int) (*models.Report, error)
	FormatSummaryText(report *models.Report) string
}

// Dispatcher executes parsed commands against the analytics engine and
// renders text replies.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	engine    *analytics.Service
	reporting ReportGenerator
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. Reporting may be nil; /report
// then responds that report generation is not configured.
func NewService(engine *analytics.Service, reporting ReportGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:    engine,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the requested analytics query and formats the answer.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command",
		zap.String("command", string(cmd.Type)),
		zap.String("sender", sender),
		zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSummary:
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		summary, err := s.engine.SalesSummary(ctx, days)
		if err != nil {
			return "", err
		}
		return formatSummary(days, summary), nil

	case models.CommandTrending:
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		limit, err := intArg(cmd.Args, 1, defaultLimit)
		if err != nil {
			return "", err
		}
		trends, err := s.engine.TrendingProducts(ctx, days, limit)
		if err != nil {
			return "", err
		}
		return formatTrending(days, trends), nil

	case models.CommandStock:
		threshold, err := intArg(cmd.Args, 0, defaultThreshold)
		if err != nil {
			return "", err
		}
		items, err := s.engine.StockAlerts(ctx, threshold)
		if err != nil {
			return "", err
		}
		return formatStockAlerts(threshold, items), nil

	case models.CommandDaily:
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		trend, err := s.engine.DailySalesTrend(ctx, days)
		if err != nil {
			return "", err
		}
		return formatDailyTrend(days, trend), nil

	case models.CommandShops:
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		stats, err := s.engine.ShopPerformance(ctx, days)
		if err != nil {
			return "", err
		}
		return formatShops(days, stats), nil

	case models.CommandCategories:
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		stats, err := s.engine.CategoryPerformance(ctx, days)
		if err != nil {
			return "", err
		}
		return formatCategories(days, stats), nil

	case models.CommandReport:
		if s.reporting == nil {
			return "Report generation is not configured on this deployment.", nil
		}
		days, err := intArg(cmd.Args, 0, defaultWindowDays)
		if err != nil {
			return "", err
		}
		report, err := s.reporting.Generate(ctx, days)
		if err != nil {
			return "", err
		}
		return s.reporting.FormatSummaryText(report), nil

	case models.CommandHelp:
		return helpText, nil

	default:
		return "", ErrUnsupportedCommand
	}
}

func intArg(args []string, idx, fallback int) (int, error) {
	if idx >= len(args) {
		return fallback, nil
	}
	value, err := strconv.Atoi(args[idx])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArguments, args[idx])
	}
	return value, nil
}

func formatSummary(days int, summary *models.SalesSummary) string {
	if summary == nil {
		return fmt.Sprintf("No sales recorded in the last %d days.", days)
	}
	return fmt.Sprintf("Sales last %d days:\nTotal: %.2f\nOrders: %d | Items: %d\nAvg order value: %.2f",
		days, summary.TotalSales, summary.TotalOrders, summary.TotalItems, summary.AverageOrderValue)
}

func formatTrending(days int, trends []models.ProductTrend) string {
	if len(trends) == 0 {
		return fmt.Sprintf("No product sales in the last %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top products last %d days:\n", days)
	for i, p := range trends {
		if i == maxReplyRows {
			break
		}
		fmt.Fprintf(&b, "%d. %s - %d units (%.2f)", i+1, p.ProductName, p.TotalQuantity, p.TotalSales)
		if p.CurrentStock != nil {
			fmt.Fprintf(&b, ", stock %d", *p.CurrentStock)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStockAlerts(threshold int, items []models.LowStockItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("No items at or below %d units. Stock looks healthy.", threshold)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Items at or below %d units:\n", threshold)
	for i, item := range items {
		if i == maxReplyRows {
			fmt.Fprintf(&b, "...and %d more\n", len(items)-maxReplyRows)
			break
		}
		fmt.Fprintf(&b, "- %s: %d left\n", item.ProductName, item.Quantity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDailyTrend(days int, trend []models.DayBucket) string {
	if len(trend) == 0 {
		return fmt.Sprintf("No sales recorded in the last %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily sales last %d days:\n", days)
	start := 0
	if len(trend) > maxReplyRows {
		start = len(trend) - maxReplyRows
		fmt.Fprintf(&b, "(showing last %d days with sales)\n", maxReplyRows)
	}
	for _, bucket := range trend[start:] {
		fmt.Fprintf(&b, "%s: %.2f across %d orders\n", bucket.Date, bucket.TotalSales, bucket.OrderCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatShops(days int, stats []models.ShopStat) string {
	if len(stats) == 0 {
		return fmt.Sprintf("No shop sales in the last %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shop performance last %d days:\n", days)
	for i, shop := range stats {
		if i == maxReplyRows {
			break
		}
		fmt.Fprintf(&b, "%s: %.2f, %d orders, avg %.2f\n", shop.ShopName, shop.TotalSales, shop.OrderCount, shop.AverageOrderValue)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCategories(days int, stats []models.CategoryStat) string {
	if len(stats) == 0 {
		return fmt.Sprintf("No category sales in the last %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Category performance last %d days:\n", days)
	for i, cat := range stats {
		if i == maxReplyRows {
			break
		}
		fmt.Fprintf(&b, "%s: %.2f, %d items, %d products\n", cat.CategoryID, cat.TotalSales, cat.TotalItems, cat.ProductCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
