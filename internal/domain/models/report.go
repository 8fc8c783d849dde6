package models

import "time"

// Report is the aggregated business report persisted to MongoDB after each
// scheduled or on-demand generation run. Sections whose backing query failed
// are omitted and listed in OmittedSections instead of failing the report.
type Report struct {
	GeneratedAt     time.Time      `bson:"generated_at" json:"generated_at"`
	WindowDays      int            `bson:"window_days" json:"window_days"`
	Summary         *SalesSummary  `bson:"summary,omitempty" json:"summary,omitempty"`
	Trending        []ProductTrend `bson:"trending,omitempty" json:"trending,omitempty"`
	DailyTrend      []DayBucket    `bson:"daily_trend,omitempty" json:"daily_trend,omitempty"`
	Categories      []CategoryStat `bson:"categories,omitempty" json:"categories,omitempty"`
	Shops           []ShopStat     `bson:"shops,omitempty" json:"shops,omitempty"`
	StockAlerts     []LowStockItem `bson:"stock_alerts,omitempty" json:"stock_alerts,omitempty"`
	Recommendations []string       `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	OmittedSections []string       `bson:"omitted_sections,omitempty" json:"omitted_sections,omitempty"`
	PDFPath         string         `bson:"pdf_path,omitempty" json:"pdf_path,omitempty"`
	ChartPaths      []string       `bson:"chart_paths,omitempty" json:"chart_paths,omitempty"`
}
