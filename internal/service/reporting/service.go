package reporting

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/config"
	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/repository/sheets"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
)

const (
	dateLayout = "2006-01-02"

	trendingLimit  = 10
	stockThreshold = 10

	// How many rows each section shows in the WhatsApp digest.
	digestRows = 5
)

// ReportWriter persists generated reports.
type ReportWriter interface {
	SaveReport(ctx context.Context, report models.Report) error
}

// Service assembles business reports from the analytics engine, renders the
// PDF and chart artifacts, persists the report record and optionally mirrors
// the headline numbers to a spreadsheet.
type Service struct {
	engine   *analytics.Service
	writer   ReportWriter
	exporter sheets.Exporter
	cfg      config.ReportingConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. Writer and exporter may
// be nil; the corresponding steps are skipped.
func NewService(engine *analytics.Service, writer ReportWriter, exporter sheets.Exporter, cfg config.ReportingConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		writer:   writer,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate builds a full report over the trailing window. A section whose
// backing query fails is omitted and noted on the report rather than failing
// the run; only invalid input aborts.
func (s *Service) Generate(ctx context.Context, windowDays int) (*models.Report, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: report window must be positive, got %d", analytics.ErrInvalidArgument, windowDays)
	}

	report := &models.Report{
		GeneratedAt: s.now().UTC(),
		WindowDays:  windowDays,
	}

	if summary, err := s.engine.SalesSummary(ctx, windowDays); err != nil {
		s.omitSection(report, "sales summary", err)
	} else {
		report.Summary = summary
	}

	if trending, err := s.engine.TrendingProducts(ctx, windowDays, trendingLimit); err != nil {
		s.omitSection(report, "trending products", err)
	} else {
		report.Trending = trending
	}

	if trend, err := s.engine.DailySalesTrend(ctx, windowDays); err != nil {
		s.omitSection(report, "daily trend", err)
	} else {
		report.DailyTrend = trend
	}

	if categories, err := s.engine.CategoryPerformance(ctx, windowDays); err != nil {
		s.omitSection(report, "category performance", err)
	} else {
		report.Categories = categories
	}

	if shops, err := s.engine.ShopPerformance(ctx, windowDays); err != nil {
		s.omitSection(report, "shop performance", err)
	} else {
		report.Shops = shops
	}

	if alerts, err := s.engine.StockAlerts(ctx, stockThreshold); err != nil {
		s.omitSection(report, "stock alerts", err)
	} else {
		report.StockAlerts = alerts
	}

	report.Recommendations = buildRecommendations(report)

	if err := s.renderArtifacts(report); err != nil {
		s.logger.Error("failed to render report artifacts", zap.Error(err))
	}

	if s.writer != nil {
		if err := s.writer.SaveReport(ctx, *report); err != nil {
			s.logger.Error("failed to persist report", zap.Error(err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSummaryRow(ctx, *report); err != nil {
			s.logger.Error("failed to export summary row", zap.Error(err))
		}
	}

	s.logger.Info("report generated",
		zap.Int("window_days", windowDays),
		zap.Strings("omitted_sections", report.OmittedSections))

	return report, nil
}

// FormatSummaryText renders the report as a WhatsApp-ready text digest.
func (s *Service) FormatSummaryText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Business Analytics Report* (last %d days)\n", report.WindowDays)
	fmt.Fprintf(&b, "Generated %s\n", report.GeneratedAt.Format(dateLayout))

	b.WriteString("\n*Sales*\n")
	if report.Summary != nil {
		fmt.Fprintf(&b, "Total sales: %.2f\n", report.Summary.TotalSales)
		fmt.Fprintf(&b, "Orders: %d | Items: %d\n", report.Summary.TotalOrders, report.Summary.TotalItems)
		fmt.Fprintf(&b, "Avg order value: %.2f\n", report.Summary.AverageOrderValue)
	} else {
		b.WriteString("No sales recorded in this window.\n")
	}

	if len(report.Trending) > 0 {
		b.WriteString("\n*Top products*\n")
		for i, p := range report.Trending {
			if i == digestRows {
				break
			}
			fmt.Fprintf(&b, "%d. %s - %d units (%.2f)\n", i+1, p.ProductName, p.TotalQuantity, p.TotalSales)
		}
	}

	if len(report.Shops) > 0 {
		b.WriteString("\n*Shops*\n")
		for i, shop := range report.Shops {
			if i == digestRows {
				break
			}
			fmt.Fprintf(&b, "%s: %.2f across %d orders\n", shop.ShopName, shop.TotalSales, shop.OrderCount)
		}
	}

	if len(report.StockAlerts) > 0 {
		b.WriteString("\n*Low stock*\n")
		for i, item := range report.StockAlerts {
			if i == digestRows {
				break
			}
			fmt.Fprintf(&b, "- %s: %d left\n", item.ProductName, item.Quantity)
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\n*Recommendations*\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	if len(report.OmittedSections) > 0 {
		fmt.Fprintf(&b, "\nUnavailable sections: %s\n", strings.Join(report.OmittedSections, ", "))
	}

	if url := s.ReportURL(report); url != "" {
		fmt.Fprintf(&b, "\nFull report: %s\n", url)
	}

	return strings.TrimRight(b.String(), "\n")
}

// ReportURL returns the public link to the rendered PDF, or "" when no public
// base URL is configured or no PDF was rendered.
func (s *Service) ReportURL(report *models.Report) string {
	if s.cfg.PublicBaseURL == "" || report.PDFPath == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/reports/" + filepath.Base(report.PDFPath)
}

func (s *Service) omitSection(report *models.Report, section string, err error) {
	s.logger.Warn("report section unavailable", zap.String("section", section), zap.Error(err))
	report.OmittedSections = append(report.OmittedSections, section)
}

func buildRecommendations(report *models.Report) []string {
	var recs []string

	if len(report.Trending) > 0 {
		names := make([]string, 0, 3)
		for i, p := range report.Trending {
			if i == 3 {
				break
			}
			names = append(names, p.ProductName)
		}
		recs = append(recs, fmt.Sprintf("Keep top sellers stocked: %s.", strings.Join(names, ", ")))
	}

	for _, p := range report.Trending {
		if p.CurrentStock != nil && *p.CurrentStock <= stockThreshold {
			recs = append(recs, fmt.Sprintf("%s is trending but only %d left in stock; restock first.", p.ProductName, *p.CurrentStock))
			break
		}
	}

	if n := len(report.StockAlerts); n > 0 {
		recs = append(recs, fmt.Sprintf("Reorder soon: %d item(s) at or below %d units.", n, stockThreshold))
	}

	if report.Summary == nil {
		recs = append(recs, "No sales in the window; check that checkout events are flowing.")
	}

	return recs
}
