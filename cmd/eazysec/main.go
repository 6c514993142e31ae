package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/app"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/blog"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/consultations"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/observability"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/cache"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/db"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/roles"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/users"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	issuer := auth.NewTokenIssuer(cfg.AuthTokenSecret, cfg.AuthTokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, issuer, cfg.IsProduction())

	resolver := rbac.NewResolver(pool)
	gate := rbac.Middleware{Verifier: issuer, Store: resolver, Logger: logger}

	csrfManager := csrf.NewManager(redisClient, cfg.CSRFSecret, cfg.CSRFTokenTTL, cfg.IsProduction())
	csrfHandler := csrf.NewHandler(logger, csrfManager)

	recorder := audit.NewRecorder(audit.NewPGStore(pool), logger)

	metrics := observability.NewMetrics()

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(pool)), gate, csrfManager, recorder)
	rolesHandler := roles.NewHandler(logger, roles.NewService(roles.NewRepository(pool)), gate, csrfManager, recorder)
	blogHandler := blog.NewHandler(logger, blog.NewRepository(pool), gate, csrfManager, recorder)
	consultationsHandler := consultations.NewHandler(logger, consultations.NewRepository(pool), gate, csrfManager, recorder)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthHandler:          authHandler,
		CSRFHandler:          csrfHandler,
		UsersHandler:         usersHandler,
		RolesHandler:         rolesHandler,
		BlogHandler:          blogHandler,
		ConsultationsHandler: consultationsHandler,
		Gate:                 gate,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:     asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:        logger,
		Purger:        authRepo,
		PurgeInterval: cfg.SessionPurgeInterval,
		Metrics:       jobs.NewMetrics(metrics.Registerer()),
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppRequestTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
