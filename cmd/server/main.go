package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"wellnest/internal/config"
	"wellnest/internal/database"
	"wellnest/internal/handlers"
	"wellnest/internal/logger"
	"wellnest/internal/progression"
	"wellnest/internal/relay"
	"wellnest/internal/repository"
	"wellnest/internal/security"
	"wellnest/internal/service"
	"wellnest/internal/store"
	"wellnest/internal/store/memory"
)

const (
	sessionCleanupInterval = time.Hour
	shutdownTimeout        = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	st, filter, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog := service.NewCatalogService(st, log)
	if err := catalog.Seed(ctx); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	emailService, err := service.NewEmailService(ctx, log, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	progOpts := []progression.Option{
		progression.WithLocation(loc),
		progression.WithAchievementBonus(cfg.AwardAchievementBonus),
	}
	if emailService.IsEnabled() {
		progOpts = append(progOpts, progression.WithNotifier(emailService))
	}
	prog := progression.NewService(st, log, progOpts...)
	if err := prog.Preload(ctx); err != nil {
		return fmt.Errorf("preload achievement rules: %w", err)
	}

	authOpts := []service.AuthOption{service.WithWelcomeSender(emailService)}
	if filter != nil {
		authOpts = append(authOpts, service.WithWordFilter(filter))
	}
	authService := service.NewAuthService(st, prog, log, cfg.SessionDuration, authOpts...)

	chatRelay := relay.New(cfg.ChatWebhookURL, cfg.ChatWebhookSecret, cfg.ChatRelayTimeout)
	if !chatRelay.Configured() {
		log.Warn("CHAT_WEBHOOK_URL not set, chat will answer with the fallback reply")
	}

	csrf, err := security.NewCSRFGenerator(cfg.CSRFSecret)
	if err != nil {
		return err
	}
	if cfg.CSRFSecret == "" {
		log.Warn("CSRF_SECRET not set, using a random key; tokens will not survive a restart")
	}
	limiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	router := handlers.NewRouter(handlers.Handlers{
		Middleware: handlers.NewMiddleware(authService, csrf, limiter, log),
		Auth:       handlers.NewAuthHandler(authService, csrf, log),
		Moods:      handlers.NewMoodHandler(service.NewMoodService(st), log),
		Activities: handlers.NewActivityHandler(catalog, prog, log),
		Chat:       handlers.NewChatHandler(service.NewChatService(st, chatRelay, log), log),
		Rewards:    handlers.NewRewardsHandler(service.NewRewardsService(prog, log), log),
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ChatRelayTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "addr", server.Addr, "db_type", cfg.DatabaseType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return cleanupExpiredSessions(gctx, authService, log)
	})

	g.Go(func() error {
		return limiter.Run(gctx, cfg.RateLimitWindow)
	})

	return g.Wait()
}

// openStore builds the configured store. The word filter is only available
// on SQL stores.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, service.WordFilter, func(), error) {
	if cfg.UsesMemoryStore() {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil, func() {}, nil
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}
	log.Info("database connection established", "db_type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx, log); err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := db.SeedBadWords(ctx, cfg.BadWordsURL, log); err != nil {
		log.Warn("failed to seed bad words filter", "error", err)
	}

	return repository.NewStore(db), db, closeDB, nil
}

// cleanupExpiredSessions periodically removes expired sessions until ctx ends
func cleanupExpiredSessions(ctx context.Context, authService *service.AuthService, log *logger.Logger) error {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := authService.CleanupExpiredSessions(ctx); err != nil {
				log.Error("failed to clean up expired sessions", "error", err)
				continue
			}
			log.Debug("expired sessions cleaned up")
		}
	}
}
