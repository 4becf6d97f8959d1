package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Vovarama1992/tanky/internal/ai"
	"github.com/Vovarama1992/tanky/internal/config"
	"github.com/Vovarama1992/tanky/internal/delivery"
	"github.com/Vovarama1992/tanky/internal/domain"
	"github.com/Vovarama1992/tanky/internal/error_notificator"
	"github.com/Vovarama1992/tanky/internal/infra"
	"github.com/Vovarama1992/tanky/internal/ports"
	"github.com/Vovarama1992/tanky/internal/webhook"
)

const (
	serviceName     = "tanky"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run возвращает ошибку вместо log.Fatal, чтобы отработали все defer:
// сначала ждём загрузки картинок, потом дренируем вебхук, потом закрываем БД.
func run() error {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY not set")
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	if cfg.InsecureAdminKey() {
		baseLogger.Warn("ADMIN_KEY not set, using the built-in default key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// STORAGE
	// =========================================================================

	logSink := infra.NewFileLog(cfg.LogFile)

	var history ports.HistoryStore
	switch cfg.HistoryBackend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("db ping failed: %w", err)
		}

		repo := infra.NewRecordRepo(db, ports.HistoryLimit)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to create history table: %w", err)
		}
		history = repo
	case "memory":
		history = infra.NewMemoryHistory(ports.HistoryLimit)
	default:
		history = infra.NewFileHistory(cfg.HistoryFile, ports.HistoryLimit)
	}
	baseLogger.Info("history backend ready", zap.String("backend", cfg.HistoryBackend))

	var images ports.S3Service
	if cfg.S3Enabled() {
		s3Client, err := infra.NewS3Client(ctx, infra.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Insecure:  cfg.S3Insecure,
		})
		if err != nil {
			return fmt.Errorf("failed to init s3: %w", err)
		}
		images = domain.NewS3Service(s3Client)
		baseLogger.Info("image archive enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// =========================================================================
	// NOTIFICATIONS
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.Noop{}
	if cfg.TelegramEnabled() {
		tg, err := error_notificator.NewTelegramInfra(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
		if err != nil {
			return fmt.Errorf("failed to init telegram notifier: %w", err)
		}
		errInfra = tg
	}
	errService := error_notificator.NewService(errInfra, baseLogger)

	var hook ports.WebhookNotifier = webhook.Noop{}
	if cfg.WebhookURL != "" {
		dispatcher := webhook.NewDispatcher(
			webhook.NewHTTPSender(cfg.WebhookURL),
			webhook.DefaultQueueSize,
			baseLogger,
		)
		defer dispatcher.Close()
		hook = dispatcher
	}

	// =========================================================================
	// SERVICES
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIMaxTokens)
	aiService := ai.NewAiService(openAIClient, errService, baseLogger, cfg.UpstreamTimeout)
	recordService := domain.NewRecordService(logSink, history, hook, images, baseLogger)
	defer recordService.Wait()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	delivery.RegisterRoutes(
		r,
		delivery.NewChatHandler(aiService, recordService, cfg.MaxBodyBytes, zl),
		delivery.NewAdminHandler(recordService, zl),
		cfg.AdminKey,
		delivery.RateLimit{Requests: cfg.RateLimit, Window: cfg.RateWindow},
	)
	delivery.MountStatic(r, cfg.StaticDir)

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "✅ Tanky API listening at " + srv.Addr,
		Service: serviceName,
	})

	// Serve возвращается только после того, как Shutdown дождался активных запросов
	if err := delivery.Serve(ctx, srv, ln, shutdownTimeout); err != nil {
		return err
	}

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server stopped, draining background work",
		Service: serviceName,
	})
	return nil
}
