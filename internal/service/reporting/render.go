package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

const stampLayout = "20060102_150405"

// renderArtifacts writes the chart PNGs and the PDF under the configured
// output directory and records their paths on the report.
func (s *Service) renderArtifacts(report *models.Report) error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create report output dir: %w", err)
	}

	stamp := report.GeneratedAt.Format(stampLayout)

	if len(report.Trending) > 0 {
		bars := make([]chart.Value, 0, len(report.Trending))
		for _, p := range report.Trending {
			bars = append(bars, chart.Value{Label: p.ProductName, Value: float64(p.TotalQuantity)})
		}
		path := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("trending_products_%s.png", stamp))
		if err := renderBarChart(path, fmt.Sprintf("Trending Products - Last %d Days", report.WindowDays), bars); err != nil {
			return err
		}
		report.ChartPaths = append(report.ChartPaths, path)
	}

	if len(report.StockAlerts) > 0 {
		bars := make([]chart.Value, 0, len(report.StockAlerts))
		for _, item := range report.StockAlerts {
			bars = append(bars, chart.Value{Label: item.ProductName, Value: float64(item.Quantity)})
		}
		path := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("low_stock_%s.png", stamp))
		if err := renderBarChart(path, "Low Stock Items", bars); err != nil {
			return err
		}
		report.ChartPaths = append(report.ChartPaths, path)
	}

	pdfPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("business_report_%s.pdf", stamp))
	if err := renderPDF(report, pdfPath); err != nil {
		return err
	}
	report.PDFPath = pdfPath

	return nil
}

func renderBarChart(path, title string, bars []chart.Value) error {
	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   512,
		BarWidth: 50,
		Bars:     bars,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	return nil
}

func renderPDF(report *models.Report, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Business Analytics Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated on %s over the last %d days",
		report.GeneratedAt.Format("2006-01-02 15:04:05"), report.WindowDays), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeHeading := func(text string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	writeLine := func(text string) {
		pdf.MultiCell(0, 6, text, "", "L", false)
	}

	writeHeading("Sales Summary")
	if report.Summary != nil {
		writeLine(fmt.Sprintf("Total sales: %.2f", report.Summary.TotalSales))
		writeLine(fmt.Sprintf("Orders: %d, items sold: %d", report.Summary.TotalOrders, report.Summary.TotalItems))
		writeLine(fmt.Sprintf("Average order value: %.2f", report.Summary.AverageOrderValue))
	} else {
		writeLine("No sales recorded in this window.")
	}
	pdf.Ln(3)

	if len(report.Trending) > 0 {
		writeHeading("Trending Products")
		for i, p := range report.Trending {
			line := fmt.Sprintf("%d. %s - %d units, %.2f revenue across %d sales", i+1, p.ProductName, p.TotalQuantity, p.TotalSales, p.SaleCount)
			if p.CurrentStock != nil {
				line += fmt.Sprintf(" (current stock %d)", *p.CurrentStock)
			}
			writeLine(line)
		}
		pdf.Ln(3)
	}

	if len(report.Categories) > 0 {
		writeHeading("Category Performance")
		for _, c := range report.Categories {
			writeLine(fmt.Sprintf("%s: %.2f revenue, %d items, %d distinct products", c.CategoryID, c.TotalSales, c.TotalItems, c.ProductCount))
		}
		pdf.Ln(3)
	}

	if len(report.Shops) > 0 {
		writeHeading("Shop Performance")
		for _, shop := range report.Shops {
			writeLine(fmt.Sprintf("%s: %.2f revenue, %d orders, avg %.2f", shop.ShopName, shop.TotalSales, shop.OrderCount, shop.AverageOrderValue))
		}
		pdf.Ln(3)
	}

	if len(report.StockAlerts) > 0 {
		writeHeading("Stock Alerts")
		for _, item := range report.StockAlerts {
			writeLine(fmt.Sprintf("%s (%s): %d left at %.2f", item.ProductName, item.BrandName, item.Quantity, item.Price))
		}
		pdf.Ln(3)
	}

	if len(report.Recommendations) > 0 {
		writeHeading("Recommendations")
		for _, rec := range report.Recommendations {
			writeLine("- " + rec)
		}
		pdf.Ln(3)
	}

	for _, chartPath := range report.ChartPaths {
		pdf.ImageOptions(chartPath, 10, 0, 190, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(4)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}
