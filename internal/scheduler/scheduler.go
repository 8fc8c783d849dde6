package scheduler

import (
	"context"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/config"
	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/reporting"
	"github.com/pramodporuwa/shopsense/internal/service/whatsapp"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	messagingSvc whatsapp.MessagingService
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured timezone; an unknown timezone falls back to UTC.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, messagingSvc whatsapp.MessagingService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		messagingSvc: messagingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailyReport)
	if err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating scheduled report", zap.Int("window_days", s.cfg.Reporting.WindowDays))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.Generate(ctx, s.cfg.Reporting.WindowDays)
	if err != nil {
		s.logger.Error("failed to generate scheduled report", zap.Error(err))
		return
	}

	if s.messagingSvc == nil || s.cfg.WhatsApp.Recipient == "" {
		s.logger.Info("report generated, no delivery recipient configured")
		return
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.Recipient,
		Message: s.reportingSvc.FormatSummaryText(report),
	}
	if err := s.messagingSvc.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send report summary", zap.Error(err))
		return
	}

	if url := s.reportingSvc.ReportURL(report); url != "" {
		filename := filepath.Base(report.PDFPath)
		if err := s.messagingSvc.SendDocument(ctx, s.cfg.WhatsApp.Recipient, url, filename, "Business report"); err != nil {
			s.logger.Error("failed to send report document", zap.Error(err))
			return
		}
	}

	s.logger.Info("scheduled report delivered")
}
