package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/config"
	"github.com/pramodporuwa/shopsense/internal/repository/mongodb"
	"github.com/pramodporuwa/shopsense/internal/repository/sheets"
	"github.com/pramodporuwa/shopsense/internal/scheduler"
	"github.com/pramodporuwa/shopsense/internal/server/handlers"
	"github.com/pramodporuwa/shopsense/internal/server/router"
	analyticssvc "github.com/pramodporuwa/shopsense/internal/service/analytics"
	assistantsvc "github.com/pramodporuwa/shopsense/internal/service/assistant"
	commandsvc "github.com/pramodporuwa/shopsense/internal/service/commands"
	reportingsvc "github.com/pramodporuwa/shopsense/internal/service/reporting"
	whatsappsvc "github.com/pramodporuwa/shopsense/internal/service/whatsapp"
	"github.com/pramodporuwa/shopsense/pkg/clients/anthropic"
	whatsappclient "github.com/pramodporuwa/shopsense/pkg/clients/whatsapp"
	"github.com/pramodporuwa/shopsense/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		gs, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = gs
		baseLogger.Info("google sheets export enabled")
	}

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, natural language questions disabled")
	}

	engine := analyticssvc.NewService(mongoRepo, baseLogger.Named("svc.analytics"))
	reportingSvc := reportingsvc.NewService(engine, mongoRepo, exporter, cfg.Reporting, baseLogger.Named("svc.reporting"))
	commandDispatcher := commandsvc.NewService(engine, reportingSvc, baseLogger.Named("svc.commands"))
	assistantSvc := assistantsvc.NewService(engine, aiClient, baseLogger.Named("svc.assistant"))

	var messagingSvc whatsappsvc.MessagingService
	var webhookHandler *handlers.WebhookHandler
	if cfg.WhatsAppEnabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, assistantSvc, baseLogger.Named("svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		baseLogger.Info("whatsapp messaging enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, webhook routes disabled")
	}

	analyticsHandler := handlers.NewAnalyticsHandler(engine, assistantSvc, baseLogger.Named("handlers.analytics"))
	ginEngine := router.New(analyticsHandler, webhookHandler, cfg.Reporting.OutputDir, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
