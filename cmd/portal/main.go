package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/verdantfield/portal/internal/app"
	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/inquiries"
	"github.com/verdantfield/portal/internal/invoices"
	"github.com/verdantfield/portal/internal/observability"
	"github.com/verdantfield/portal/internal/platform/cache"
	"github.com/verdantfield/portal/internal/platform/db"
	"github.com/verdantfield/portal/internal/recaptcha"
	"github.com/verdantfield/portal/internal/reviews"
	"github.com/verdantfield/portal/internal/shared"
	"github.com/verdantfield/portal/internal/stats"
	"github.com/verdantfield/portal/internal/tickets"
	"github.com/verdantfield/portal/internal/users"
	"github.com/verdantfield/portal/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
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

	sessionManager := shared.NewSessionManager(redisClient, "portal_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	invoiceRepo := invoices.NewRepository(pool)
	invoiceService := invoices.NewService(invoiceRepo)
	invoiceRenderer := invoices.NewPDFRenderer("Verdant Field Services")
	invoiceHandler := invoices.NewHandler(logger, invoiceService, invoiceRenderer)

	ticketRepo := tickets.NewRepository(pool)
	ticketService := tickets.NewService(ticketRepo)
	ticketHandler := tickets.NewHandler(logger, ticketService, authMiddleware)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	verifier := recaptcha.NewClient(cfg.RecaptchaSecret)
	inquiryRepo := inquiries.NewRepository(pool)
	inquiryService := inquiries.NewService(inquiryRepo, verifier, jobClient, logger, cfg.RecaptchaMinScore, cfg.NotifyTo)
	inquiryHandler := inquiries.NewHandler(logger, inquiryService)

	reviewRepo := reviews.NewRepository(pool)
	reviewService := reviews.NewService(reviewRepo)
	reviewHandler := reviews.NewHandler(logger, reviewService)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userHandler := users.NewHandler(logger, userService)

	statsRepo := stats.NewRepository(pool)
	statsHandler := stats.NewHandler(logger, statsRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		InvoicesHandler:  invoiceHandler,
		TicketsHandler:   ticketHandler,
		InquiriesHandler: inquiryHandler,
		ReviewsHandler:   reviewHandler,
		UsersHandler:     userHandler,
		StatsHandler:     statsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
