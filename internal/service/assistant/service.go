package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
	"github.com/pramodporuwa/shopsense/pkg/clients/anthropic"
)

const (
	factsWindowDays    = 30
	factsTrendingLimit = 10
	factsThreshold     = 10
)

// Service answers natural-language business questions by handing the latest
// analytics facts plus the question to the LLM. It owns no analytics logic of
// its own; it only orchestrates.
type Service struct {
	engine   *analytics.Service
	ai       anthropic.Client
	sessions *SessionManager
	logger   *zap.Logger
}

// NewService wires the assistant. ai may be nil when no API key is
// configured; Enabled reports that state.
func NewService(engine *analytics.Service, ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		ai:       ai,
		sessions: NewSessionManager(),
		logger:   logger,
	}
}

// Enabled reports whether an LLM backend is configured.
func (s *Service) Enabled() bool {
	return s.ai != nil
}

// Answer responds to a question grounded on current analytics facts,
// remembering the exchange in the user's session.
func (s *Service) Answer(ctx context.Context, userID, question string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("assistant is not configured")
	}

	facts := s.collectFacts(ctx)
	history := s.sessions.History(userID)

	answer, err := s.ai.AnswerQuestion(ctx, question, facts, history)
	if err != nil {
		return "", fmt.Errorf("assistant answer: %w", err)
	}

	s.sessions.Remember(userID, question, answer)
	return answer, nil
}

// factBundle is the JSON context handed to the model. Sections whose query
// failed are simply absent; the model is told to answer only from what is
// present.
type factBundle struct {
	WindowDays  int                   `json:"window_days"`
	Summary     *models.SalesSummary  `json:"sales_summary,omitempty"`
	Trending    []models.ProductTrend `json:"trending_products,omitempty"`
	StockAlerts []models.LowStockItem `json:"stock_alerts,omitempty"`
	Shops       []models.ShopStat     `json:"shop_performance,omitempty"`
}

func (s *Service) collectFacts(ctx context.Context) string {
	bundle := factBundle{WindowDays: factsWindowDays}

	if summary, err := s.engine.SalesSummary(ctx, factsWindowDays); err != nil {
		s.logger.Warn("facts: sales summary unavailable", zap.Error(err))
	} else {
		bundle.Summary = summary
	}

	if trending, err := s.engine.TrendingProducts(ctx, factsWindowDays, factsTrendingLimit); err != nil {
		s.logger.Warn("facts: trending products unavailable", zap.Error(err))
	} else {
		bundle.Trending = trending
	}

	if alerts, err := s.engine.StockAlerts(ctx, factsThreshold); err != nil {
		s.logger.Warn("facts: stock alerts unavailable", zap.Error(err))
	} else {
		bundle.StockAlerts = alerts
	}

	if shops, err := s.engine.ShopPerformance(ctx, factsWindowDays); err != nil {
		s.logger.Warn("facts: shop performance unavailable", zap.Error(err))
	} else {
		bundle.Shops = shops
	}

	encoded, err := json.Marshal(bundle)
	if err != nil {
		s.logger.Error("facts: marshal failed", zap.Error(err))
		return "{}"
	}
	return string(encoded)
}
