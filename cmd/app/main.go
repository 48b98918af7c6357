package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/config"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/adapter"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/adapters/notify"
	payAdapters "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/adapters/payment"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/clock"
	pg "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/db/postgres"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/logging"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
	red "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/redis"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/sched"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/web"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/worker"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	// ---- Logging ----
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 30*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	packageRepo := pg.NewPackageRepoCacheDecorator(pg.NewPostgresPackageRepo(pool), redisClient, cfg.Redis.TTL)
	customerRepo := pg.NewCustomerRepo(pool)
	codeRepo := pg.NewActivationCodeRepo(pool)
	purchaseRepo := pg.NewPurchaseRepo(pool)
	adminRepo := pg.NewAdminUserRepo(pool)
	notifLogRepo := pg.NewCodeNotificationRepo(pool)
	txm := pg.NewTxManager(pool)

	clk := clock.System{}

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	switch strings.ToLower(cfg.Payment.Gateway) {
	case "", "manual":
		gateway, err = payAdapters.NewManualGateway(cfg.Payment.CallbackURL, logger)
		if err != nil {
			log.Fatalf("manual gateway: %v", err)
		}
	case "noop":
		gateway = payAdapters.NewNoopPaymentGateway()
	default:
		log.Fatalf("unknown payment.gateway %q", cfg.Payment.Gateway)
	}

	// ---- Ops notifier ----
	notifier := notify.NewLogNotifier(cfg.Admin.NotifyAddress, logger)

	// ---- Use cases ----
	catalogUC := usecase.NewCatalogUseCase(packageRepo)
	monitor := usecase.NewSessionMonitor(clk, notifier, logger)
	purchaseUC := usecase.NewPurchaseUseCase(packageRepo, customerRepo, codeRepo, purchaseRepo, gateway, txm, clk, cfg.Payment.CodeValidity, cfg.Payment.CallbackURL)
	activationUC := usecase.NewActivationUseCase(codeRepo, customerRepo, packageRepo, monitor, txm, clk)
	ledgerUC := usecase.NewLedgerUseCase(codeRepo, customerRepo, packageRepo, notifLogRepo, notifier, clk, logger)
	adminUC := usecase.NewAdminUseCase(adminRepo, cfg.Admin.AllowList, logger)
	statsUC := usecase.NewStatsUseCase(customerRepo, codeRepo, purchaseRepo, monitor, clk)

	if err := adminUC.SyncAllowList(ctx); err != nil {
		log.Fatalf("sync allow-list: %v", err)
	}

	// ---- Worker pool ----
	workerPool := worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, logger)
	workerPool.Start(ctx)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	srv := web.NewServer(catalogUC, purchaseUC, activationUC, ledgerUC, adminUC, statsUC, monitor, auth, rateLimiter, workerPool, logger, cfg.Payment.RatePerPhone, cfg.Payment.RateWindow)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background workers ----
	ticker := sched.NewSessionTicker(cfg.Sessions.TickEvery, monitor, monitor, logger)
	go func() { _ = ticker.Run(ctx) }()

	reconciler := sched.NewPurchaseReconciler(purchaseUC, cfg.Payment.ReconcileEvery, cfg.Payment.PendingMaxAge, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	workerPool.Stop()
}
