package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"suspended_business_scanner/internal/app"
	"suspended_business_scanner/internal/domain/notify"
	"suspended_business_scanner/internal/domain/place"
	"suspended_business_scanner/internal/infra/chat"
	"suspended_business_scanner/internal/infra/config"
	idb "suspended_business_scanner/internal/infra/database"
	"suspended_business_scanner/internal/infra/email"
	"suspended_business_scanner/internal/infra/logger"
	"suspended_business_scanner/internal/infra/places"
	"suspended_business_scanner/internal/infra/scheduler"
	"suspended_business_scanner/internal/infra/sheets"
	"suspended_business_scanner/internal/infra/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get()
	mainLogger.Infof("Configuration loaded. Backend: %s, RunMode: %s, WriteEnabled: %t", cfg.StoreBackend, cfg.RunMode, cfg.WriteEnabled)

	citiesCfg, err := config.LoadCities(cfg.CitiesConfigPath)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not load cities configuration: %v", err)
	}
	mainLogger.Infof("Cities configured: %v", citiesCfg.CityOrder())

	ctx := context.Background()

	// Storage backend: raw tables plus the recipient list.
	var store place.TableStore
	var recipients notify.Source
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		store = idb.NewPostgresTableStore(db)
		recipients = idb.NewPostgresRecipientSource(db)
		mainLogger.Info("Postgres store initialized.")
	default:
		svc, err := sheets.NewService(ctx, cfg.ServiceAccount)
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not create sheets client: %v", err)
		}
		store = sheets.NewTableStore(svc, cfg.SpreadsheetID, mainLogger)
		recipients = sheets.NewRecipientSource(svc, cfg.SpreadsheetID, mainLogger)
		mainLogger.Info("Sheets store initialized.")
	}

	source, err := places.NewClient(ctx, cfg, citiesCfg.Scan, mainLogger)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create places client: %v", err)
	}

	// Missing transport credentials disable that channel for the run.
	var emailTransport notify.EmailTransport
	if cfg.EmailConfigured() {
		emailTransport = email.NewSendGridTransport(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
		mainLogger.Info("Email transport initialized.")
	} else {
		mainLogger.Warn("Email transport not configured; email channel disabled.")
	}
	var chatTransport notify.ChatTransport
	if cfg.ChatConfigured() {
		chatTransport = chat.NewTwilioTransport(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		mainLogger.Info("WhatsApp transport initialized.")
	} else {
		mainLogger.Warn("WhatsApp transport not configured; whatsapp channel disabled.")
	}

	var snapshots app.SnapshotWriter
	if cfg.SnapshotDir != "" {
		snapshots = snapshot.NewWriter(cfg.SnapshotDir)
	}

	dispatcher := app.NewNotificationService(emailTransport, chatTransport, mainLogger)
	scanService := app.NewScanService(app.ScanServiceDeps{
		Source:     source,
		Store:      store,
		Recipients: recipients,
		Dispatcher: dispatcher,
		Snapshots:  snapshots,
		Logger:     mainLogger,
	}, citiesCfg, cfg.SheetLink, cfg.WriteEnabled, cfg.SendEvenIfZero)

	if cfg.RunMode == config.RunModeOnce {
		summary := scanService.Run(ctx)
		scheduler.LogSummary(mainLogger, summary)
		return
	}

	scanScheduler := scheduler.NewScanScheduler(scanService, mainLogger, cfg.CronSpecWeekly)
	if err := scanScheduler.Start(); err != nil {
		mainLogger.Fatalf("FATAL: Could not start scheduler: %v", err)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down...")
	scanScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
