package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberline/internal/api"
	"barberline/internal/auth"
	"barberline/internal/config"
	"barberline/internal/engine"
	"barberline/internal/hours"
	"barberline/internal/metrics"
	"barberline/internal/models"
	"barberline/internal/notify"
	"barberline/internal/store"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("BARBERLINE_CONFIG_PATH"))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatal().Err(err).Msg("failed to load config")
		}
		logger.Warn().Msg("config file not found, using defaults")
		cfg = config.Default()
	}

	db, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	var sync store.Broadcaster
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		sync = store.NewRedisSync(rdb, cfg.Redis.Channel, logger)
	}

	roster := make([]models.RosterEntry, 0, len(cfg.Shop.Roster))
	accounts := make([]auth.Account, 0, len(cfg.Shop.Roster))
	for _, r := range cfg.Shop.Roster {
		roster = append(roster, models.RosterEntry{ID: r.ID, Name: r.Name})
		accounts = append(accounts, auth.Account{ID: r.ID, Username: r.Username, Password: r.Password, Name: r.Name})
	}

	session := store.NewSession(ctx, db, sync, models.NewSnapshot(roster), logger)
	eng := engine.New()
	authSvc := auth.NewService(accounts)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = tg
		}
	}

	metrics.Register()

	watcher := hours.NewWatcher(session, hours.NewEvaluator(eng), cfg.WatchInterval(), logger)
	watcher.OnOpen(func(resumed int) {
		metrics.AddResumed("auto", resumed)
		notifier.ShopOpened(resumed)
	})
	go watcher.Run(ctx)

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)
	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	handlers := api.NewHandlers(session, eng, authSvc, notifier, logger)
	server := api.NewServer(cfg.HTTP.Port, handlers, api.RateLimitConfig{
		PerMinute: cfg.RateLimit.PerMinute,
		Burst:     cfg.RateLimit.Burst,
	}, logger)

	logger.Info().Int("port", cfg.HTTP.Port).Msg("barberline started")
	server.Start(ctx)
}

func startHealthServer(ctx context.Context, port int, db *store.SQLite, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
