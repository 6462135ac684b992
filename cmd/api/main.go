package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/radreport/radreport/config"
	"github.com/radreport/radreport/internal/bootstrap"
	"github.com/radreport/radreport/internal/logging"
	cronjob "github.com/radreport/radreport/internal/report/cron"
	"github.com/radreport/radreport/internal/report/llm"
	"github.com/radreport/radreport/internal/report/repository"
	"github.com/radreport/radreport/internal/report/service"
	"github.com/radreport/radreport/internal/report/templates"
)

const serviceName = "radreport"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logging.Init(cfg.App.LogLevel, !cfg.IsProduction()); err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logging.Sync()
	logger := logging.Logger

	bootstrap.SetGinMode(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pool      *pgxpool.Pool
		sqlDB     *sql.DB
		rdb       *redis.Client
		store     templates.Store
		history   *repository.HistoryRepository
		cache     *repository.CacheRepository
		scheduler *cronjob.Scheduler
	)

	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			logger.Fatalw("template store unavailable", "error", err)
		}
		defer pool.Close()

		pg := templates.NewPGStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatalw("template schema", "error", err)
		}
		store = pg

		sqlDB, err = bootstrap.OpenSQL(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			logger.Fatalw("history store unavailable", "error", err)
		}
		defer sqlDB.Close()

		history = repository.NewHistoryRepository(sqlDB)
		if err := history.EnsureSchema(ctx); err != nil {
			logger.Fatalw("history schema", "error", err)
		}
		logger.Info("connected to postgres")
	}

	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// The cache is an optimisation; run without it.
			logger.Warnw("redis unavailable, report cache disabled", "error", err)
		} else {
			defer rdb.Close()
			cache = repository.NewCacheRepository(rdb, cfg.Redis.CacheTTL)
			logger.Infow("connected to redis", "addr", cfg.Redis.Addr)
		}
	}

	catalog := templates.NewCatalog(store)
	if cfg.Templates.Dir != "" {
		n, err := catalog.LoadDir(cfg.Templates.Dir)
		if err != nil {
			logger.Fatalw("load templates", "dir", cfg.Templates.Dir, "error", err)
		}
		logger.Infow("templates loaded", "dir", cfg.Templates.Dir, "count", n)

		if pg, ok := store.(*templates.PGStore); ok {
			published, err := catalog.Publish(ctx, pg)
			if err != nil {
				logger.Warnw("publish templates", "error", err)
			}
			logger.Infow("templates published", "count", published)
		}
	}

	generator, err := llm.New(llm.Options{
		Provider:     cfg.LLM.Provider,
		GeminiAPIKey: cfg.LLM.GeminiAPIKey,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		Model:        cfg.LLM.Model,
		BaseURL:      cfg.LLM.BaseURL,
		OllamaURL:    cfg.LLM.OllamaURL,
		Temperature:  cfg.LLM.Temperature,
		Timeout:      cfg.LLM.Timeout,
	})
	if err != nil {
		logger.Warnw("report model not configured", "provider", cfg.LLM.Provider, "error", err)
	} else {
		logger.Infow("report model configured", "provider", generator.Name())
	}

	opts := service.Options{
		Generator: generator,
		Templates: catalog,
		Timeout:   cfg.LLM.Timeout,
	}
	if cache != nil {
		opts.Cache = cache
	}
	if history != nil {
		opts.History = history
	}
	reports := service.NewReportService(opts)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Reports:        reports,
		Templates:      catalog,
		DB:             pool,
		Redis:          rdb,
	})

	if history != nil {
		scheduler = cronjob.NewScheduler(history, cfg.Database.HistoryRetention)
		if err := scheduler.Start(); err != nil {
			logger.Fatalw("start scheduler", "error", err)
		}
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("listening", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("graceful shutdown failed", "error", err)
	}
}
