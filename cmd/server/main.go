package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"symposia/internal/certificate"
	certhandler "symposia/internal/certificate/handler"
	certmetrics "symposia/internal/certificate/metrics"
	"symposia/internal/entitlement"
	"symposia/internal/ledger"
	ledgerhandler "symposia/internal/ledger/handler"
	ledgermetrics "symposia/internal/ledger/metrics"
	"symposia/internal/platform/config"
	"symposia/internal/platform/httpserver"
	"symposia/internal/platform/logger"
	"symposia/internal/platform/redis"
	"symposia/internal/resourceconfig"
	"symposia/internal/roster"
	httptransport "symposia/internal/transport/http"
	"symposia/pkg/platform/audit"
	auditpg "symposia/pkg/platform/audit/store/postgres"
	auditworker "symposia/pkg/platform/audit/worker"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit events flow through a buffered inbox so scan latency never
	// includes the audit write.
	auditStore := auditpg.New(db)
	inbox := auditworker.NewInbox(auditStore, 256)
	publisher := audit.NewPublisher(inbox)

	rosterStore := roster.NewPostgres(db)
	resolver := entitlement.NewResolver(rosterStore)

	// Resource options: Postgres -> optional shared Redis layer -> local
	// TTL cache. Both layers accept the same staleness window.
	var directory resourceconfig.Directory = resourceconfig.NewPostgresDirectory(db)
	if redisClient != nil {
		directory = resourceconfig.NewRedisCache(redisClient.Client, directory, cfg.ResourceCacheTTL, log)
	}
	directory = resourceconfig.NewCache(directory, cfg.ResourceCacheTTL)

	scanService := ledger.NewService(
		rosterStore,
		resolver,
		directory,
		ledger.NewPostgres(db),
		publisher,
		log,
		ledgermetrics.New(),
	)

	engine := certificate.NewEngine(
		certificate.NewPostgres(db),
		rosterStore,
		certificate.NewRenderer(cfg.AssetDir),
		publisher,
		log,
		certmetrics.New(),
	)

	checks := []httptransport.HealthCheck{
		{Name: "postgres", Check: db.PingContext},
	}
	if redisClient != nil {
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	router := httptransport.NewRouter(log, checks,
		ledgerhandler.New(scanService, log),
		certhandler.New(engine, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return auditworker.NewWorker(auditStore, inbox.Events(), log).Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
