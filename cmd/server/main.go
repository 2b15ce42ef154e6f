// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"smartbin/internal/audit"
	"smartbin/internal/dashboard"
	httpapi "smartbin/internal/http"
	"smartbin/internal/platform/config"
	"smartbin/internal/platform/httpserver"
	"smartbin/internal/platform/logger"
	"smartbin/internal/platform/postgres"
	platformredis "smartbin/internal/platform/redis"
	"smartbin/internal/notify"
	"smartbin/internal/report/escalation"
	reporthandler "smartbin/internal/report/handler"
	reportmetrics "smartbin/internal/report/metrics"
	reportservice "smartbin/internal/report/service"
	reportstore "smartbin/internal/report/store"
	resolutionhandler "smartbin/internal/resolution/handler"
	resolutionmetrics "smartbin/internal/resolution/metrics"
	resolutionservice "smartbin/internal/resolution/service"
	"smartbin/internal/rewards"
	userhandler "smartbin/internal/user/handler"
	userservice "smartbin/internal/user/service"
	userstore "smartbin/internal/user/store"
	"smartbin/pkg/clock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	clk := clock.Real{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: postgres when configured, in-memory otherwise. With
	// postgres the report store runs behind the two-tier fallback so intake
	// survives database blips.
	var (
		reports  reportstore.Store
		users    userstore.Store
		auditSt  audit.Store
		fallback *reportstore.FallbackStore
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		fallback = reportstore.NewFallback(reportstore.NewPostgres(db), reportstore.NewMemory(), log)
		reports = fallback
		users = userstore.NewPostgres(db)
		auditSt = audit.NewPostgresStore(db)

		if len(cfg.KafkaBrokers) > 0 {
			kafkaClient, err := kgo.NewClient(
				kgo.SeedBrokers(cfg.KafkaBrokers...),
				kgo.DefaultProduceTopic(cfg.AuditTopic),
			)
			if err != nil {
				log.Error("kafka connect failed", "error", err)
				os.Exit(1)
			}
			defer kafkaClient.Close()
			publisher := audit.NewOutboxPublisher(db, kafkaClient, cfg.AuditTopic, 5*time.Second, log)
			go func() {
				if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("audit outbox publisher stopped", "error", err)
				}
			}()
		}
	} else {
		log.Info("no database configured, using in-memory stores")
		reports = reportstore.NewMemory()
		memUsers := userstore.NewMemory()
		if err := userstore.Seed(ctx, memUsers, userstore.DefaultSeed()); err != nil {
			log.Error("seed users failed", "error", err)
			os.Exit(1)
		}
		users = memUsers
		auditSt = audit.NewMemoryStore()
	}

	recorder := audit.NewRecorder(auditSt, clk)

	// Notification sink: redis stream when configured, structured log
	// otherwise. Delivery failures never affect resolutions.
	var sink notify.Sink = notify.NewLogSink(log)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sink = notify.NewRedisSink(redisClient.Client, cfg.Redis.Stream)
	}

	repMetrics := reportmetrics.New()
	resMetrics := resolutionmetrics.New()

	reportSvc := reportservice.New(reports, recorder, clk, log, repMetrics)
	resolutionSvc := resolutionservice.New(reports, users, rewards.NewCalculator(),
		recorder, sink, clk, log, resMetrics)
	userSvc := userservice.New(users, cfg.JWTSigningKey, clk, log)
	dashboardSvc := dashboard.New(reports)

	monitor := escalation.NewMonitor(reports, recorder, clk,
		cfg.EscalationThreshold, cfg.EscalationInterval, log, repMetrics)

	router := httpapi.NewRouter(httpapi.Deps{
		Reports:       reporthandler.New(reportSvc),
		Resolution:    resolutionhandler.New(resolutionSvc),
		Users:         userhandler.New(userSvc, recorder),
		Dashboard:     dashboard.NewHandler(dashboardSvc, recorder),
		JWTSigningKey: cfg.JWTSigningKey,
		Logger:        log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting smartbin server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := monitor.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if fallback != nil {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n, err := fallback.Sync(gctx); err != nil {
						log.Warn("fallback sync failed", "error", err)
					} else if n > 0 {
						log.Info("fallback reports reconciled", "count", n)
					}
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
