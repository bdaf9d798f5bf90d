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

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/repository/mongodb"
	"github.com/mamadbah2/herd-admin/internal/scheduler"
	"github.com/mamadbah2/herd-admin/internal/server/handlers"
	"github.com/mamadbah2/herd-admin/internal/server/router"
	digestsvc "github.com/mamadbah2/herd-admin/internal/service/digest"
	establishmentsvc "github.com/mamadbah2/herd-admin/internal/service/establishments"
	reportingsvc "github.com/mamadbah2/herd-admin/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/herd-admin/internal/service/whatsapp"
	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
	whatsappclient "github.com/mamadbah2/herd-admin/pkg/clients/whatsapp"
	"github.com/mamadbah2/herd-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.Error(err))
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		cancelConnect()
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	if err := store.EnsureIndexes(connectCtx); err != nil {
		baseLogger.Warn("failed to ensure mongodb indexes", zap.Error(err))
	}
	cancelConnect()
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	sources := reportingsvc.Sources{
		Activity: upstream.NewActivityClient(cfg.Upstream, logger.Named(baseLogger, "client.activity")),
		Bovine:   upstream.NewBovineClient(cfg.Upstream, logger.Named(baseLogger, "client.bovine")),
		Health:   upstream.NewHealthClient(cfg.Upstream, logger.Named(baseLogger, "client.health")),
		Economic: upstream.NewEconomicClient(cfg.Upstream, logger.Named(baseLogger, "client.economic")),
	}
	reportingSvc := reportingsvc.NewService(sources, reportingsvc.Options{
		Location:    loc,
		FanOutLimit: cfg.Reporting.FanOutLimit,
	}, logger.Named(baseLogger, "svc.reporting"))

	establishmentRepo := mongodb.NewEstablishmentRepository(store)
	subscriptionTypeRepo := mongodb.NewSubscriptionTypeRepository(store)
	auditRepo := mongodb.NewAuditRepository(store)

	establishmentSvc := establishmentsvc.NewEstablishmentService(establishmentRepo, subscriptionTypeRepo, nil, logger.Named(baseLogger, "svc.establishments"))
	subscriptionTypeSvc := establishmentsvc.NewSubscriptionTypeService(subscriptionTypeRepo, nil, logger.Named(baseLogger, "svc.subscriptions"))
	auditSvc := establishmentsvc.NewAuditService(auditRepo, nil, logger.Named(baseLogger, "svc.audits"))

	// The digest is optional: without WhatsApp credentials neither the cron job
	// nor the manual endpoint can deliver anything.
	var (
		digest  handlers.DigestSender
		webhook *handlers.WebhookHandler
	)
	if cfg.DigestEnabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp, logger.Named(baseLogger, "client.whatsapp"))
		digestSvc := digestsvc.NewService(reportingSvc, whatsClient, digestsvc.Options{
			Recipient:    cfg.Reporting.DigestRecipient,
			ServiceToken: cfg.Reporting.ServiceToken,
			Location:     loc,
		}, logger.Named(baseLogger, "svc.digest"))
		digest = digestSvc

		sched := scheduler.NewScheduler(cfg.Reporting.DigestSchedule, loc, digestSvc, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()

		if cfg.WebhookEnabled() {
			allowed := append([]string{cfg.Reporting.DigestRecipient}, cfg.WhatsApp.AllowedNumbers...)
			messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, digestSvc, allowed, logger.Named(baseLogger, "svc.whatsapp"))
			webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		}
	} else {
		baseLogger.Warn("whatsapp credentials or digest recipient missing, yearly digest disabled")
	}

	engine := router.New(router.Handlers{
		Reporting:      handlers.NewReportingHandler(reportingSvc, digest, logger.Named(baseLogger, "handlers.reporting")),
		Establishments: handlers.NewEstablishmentHandler(establishmentSvc, logger.Named(baseLogger, "handlers.establishments")),
		Subscriptions:  handlers.NewSubscriptionHandler(subscriptionTypeSvc, logger.Named(baseLogger, "handlers.subscriptions")),
		Audits:         handlers.NewAuditHandler(auditSvc, logger.Named(baseLogger, "handlers.audits")),
		Webhook:        webhook,
	}, router.Deps{
		Auditor: auditSvc,
		Store:   store,
	}, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
