package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"profile-visibility/internal/adapters/auth/jwtauth"
	"profile-visibility/internal/adapters/notify/redisqueue"
	"profile-visibility/internal/adapters/notify/webhook"
	"profile-visibility/internal/adapters/storage/postgres"
	"profile-visibility/internal/config"
	"profile-visibility/internal/platform/logger"
	"profile-visibility/internal/platform/migrations"
	"profile-visibility/internal/ports/auth"
	"profile-visibility/internal/ports/notify"
	"profile-visibility/internal/router"
)

func main() {
	configPath := flag.String("config", "", "ruta al yaml de configuración")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "profile-visibility",
	})

	opts := router.Options{Log: log, SweepInterval: cfg.SweepInterval()}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			log.Error("migrations failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.DB = db
	} else {
		log.Warn("no DB_DSN, using in-memory storage", nil)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		opts.Redis = redisClient
	}

	opts.Notifier = buildNotifier(cfg, redisClient, log)
	opts.AuthVerifier = buildVerifier(cfg, log)

	app := router.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.Sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.ServerAddr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", map[string]any{"error": err.Error()})
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}
}

// buildNotifier elige el canal de eventos: cola Redis si está configurada,
// webhook si hay URL, y descarte silencioso como último recurso.
func buildNotifier(cfg *config.AppConfig, redisClient *goredis.Client, log logger.Logger) notify.Notifier {
	if redisClient != nil && cfg.Redis.EventQueue != "" {
		return redisqueue.New(redisClient, cfg.Redis.EventQueue)
	}
	if cfg.Webhook.URL != "" {
		return webhook.New(cfg.Webhook.URL, cfg.WebhookTimeout())
	}
	log.Warn("no notification channel configured, events will be discarded", nil)
	return notify.Discard{}
}

func buildVerifier(cfg *config.AppConfig, log logger.Logger) auth.AuthVerifier {
	if cfg.JWT.Secret == "" {
		log.Warn("no JWT secret, running in dev auth mode (X-Debug-Username)", nil)
		return nil
	}
	return jwtauth.New(cfg.JWT.Secret)
}
