package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/config"
	"github.com/mamadbah2/bagstock/internal/repository/mongodb"
	"github.com/mamadbah2/bagstock/internal/repository/sheets"
	"github.com/mamadbah2/bagstock/internal/scheduler"
	"github.com/mamadbah2/bagstock/internal/server/handlers"
	"github.com/mamadbah2/bagstock/internal/server/router"
	commandsvc "github.com/mamadbah2/bagstock/internal/service/commands"
	"github.com/mamadbah2/bagstock/internal/service/consumption"
	whatsappsvc "github.com/mamadbah2/bagstock/internal/service/whatsapp"
	"github.com/mamadbah2/bagstock/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/bagstock/pkg/clients/whatsapp"
	"github.com/mamadbah2/bagstock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	var sheetsRepo *sheets.GoogleSheetRepository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var salesSource consumption.SalesSource = mongoRepo
	if cfg.Sales.Source == config.SalesSourceSheets {
		salesSource = sheets.NewSalesSource(sheetsRepo, loc, baseLogger.Named("repo.sheets.sales"))
	}

	opts := consumption.Options{
		Location:     loc,
		LookbackDays: cfg.Reporting.LookbackDays,
		Snapshots:    mongoRepo,
	}
	if sheetsRepo != nil {
		opts.Sheet = sheetsRepo
	}

	calculator := consumption.NewCalculator(nil, cfg.Stock.Initial)
	consumptionSvc := consumption.NewService(salesSource, calculator, opts, baseLogger.Named("svc.consumption"))
	consumptionHandler := handlers.NewConsumptionHandler(consumptionSvc, baseLogger.Named("handlers.consumption"))

	var (
		webhookHandler *handlers.WebhookHandler
		notifier       scheduler.Notifier
	)
	if cfg.WhatsApp.Enabled() {
		var aiClient anthropic.Client
		if cfg.AI.AnthropicKey != "" {
			aiClient = anthropic.NewClient(cfg.AI.AnthropicKey, loc)
			baseLogger.Info("anthropic ai client enabled")
		} else {
			baseLogger.Warn("anthropic api key missing, only slash commands are understood")
		}

		dispatcher := commandsvc.NewService(consumptionSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, aiClient, dispatcher, baseLogger.Named("svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp token missing, webhook and report notifications disabled")
	}

	storageHandler := handlers.NewStorageHandler(mongoRepo, loc, baseLogger.Named("handlers.storage"))
	engine := router.New(consumptionHandler, storageHandler, webhookHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, consumptionSvc, notifier, cfg.WhatsApp.ManagerID, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("sales_source", cfg.Sales.Source))
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
