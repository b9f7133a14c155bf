package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-shop-bot/internal/bot"
	"catalog-shop-bot/internal/config"
	"catalog-shop-bot/internal/session"
	"catalog-shop-bot/internal/store"
)

const serviceName = "CatalogShopBot"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Error loading configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Error building logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("Starting service",
		zap.String("service", serviceName),
		zap.String("app_env", cfg.AppEnv))

	// --- Database ---
	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal("Failed to initialize database connection", zap.Error(err))
	}
	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	dbStore := store.NewPostgresStore(db)
	logger.Info("Database connection established", zap.String("db_name", cfg.Postgres.DBName))

	// --- Session store ---
	sessions, err := newSessionStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}

	// --- Telegram transport ---
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	api.Debug = cfg.Bot.Debug
	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	if len(cfg.Bot.AdminIDs) == 0 {
		logger.Warn("ADMIN_IDS is empty; no one can use the admin panel")
	}

	guard := bot.NewGuard(cfg.Bot.AdminIDs)
	renderer := bot.NewRenderer(api, logger)
	shopBot := bot.New(dbStore, dbStore, sessions, guard, renderer, logger)

	// --- Health endpoint ---
	httpServer := newHealthServer(cfg, logger, db)
	go func() {
		logger.Info("Health server listening", zap.String("port", cfg.Health.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Health server error", zap.Error(err))
		}
	}()

	// --- Update loop ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.Bot.PollTimeout.Seconds())
	updates := api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		shopBot.Run(ctx, updates)
		close(done)
	}()
	logger.Info("Polling for updates")

	// --- Graceful shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	logger.Info("Received signal, starting graceful shutdown", zap.String("signal", receivedSignal.String()))

	api.StopReceivingUpdates()
	<-done // in-flight handlers run to completion

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Health server shutdown failed", zap.Error(err))
	}

	if err := dbStore.Close(); err != nil {
		logger.Warn("Error closing database connection", zap.Error(err))
	}
	logger.Info("Service shutdown sequence finished")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.AppEnv == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

func newSessionStore(cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("Using in-memory session store", zap.Duration("ttl", cfg.Session.TTL))
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	logger.Info("Using Redis session store",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("ttl", cfg.Session.TTL))
	return session.NewRedisStore(client, "session:", cfg.Session.TTL), nil
}

func newHealthServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus := "healthy"
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
			logger.Warn("Health check DB ping failed", zap.Error(err))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": serviceName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})

	return &http.Server{
		Addr:         ":" + cfg.Health.Port,
		Handler:      router,
		ReadTimeout:  cfg.Health.TimeoutRead,
		WriteTimeout: cfg.Health.TimeoutWrite,
	}
}
