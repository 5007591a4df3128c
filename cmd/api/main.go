package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bookingintake/internal/calendar"
	"bookingintake/internal/config"
	"bookingintake/internal/middleware"
	"bookingintake/internal/modules/intake"
	"bookingintake/internal/notify"
	"bookingintake/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := buildSessionStore(cfg, logger)

	client := calendar.NewClient(calendar.Config{
		AuditBaseURL:        cfg.AuditBaseURL,
		ConsultationBaseURL: cfg.ConsultationBaseURL,
		Timeout:             cfg.HTTPTimeout,
	}, logger)

	notifier := notify.NewLogNotifier(logger)

	var hook intake.CompletionHook = notify.NoopHook{}
	if cfg.CompletionWebhookURL != "" {
		hook = notify.NewWebhookHook(cfg.CompletionWebhookURL, cfg.HTTPTimeout, logger)
	}

	intakeService := intake.NewService(store, client, notifier, hook, logger)
	intakeHandler := intake.NewHandler(intakeService)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(logger))

	v1 := r.Group("/api/v1")
	{
		intakeHandler.RegisterRoutes(v1)
	}

	logger.Info("starting intake API",
		zap.String("addr", cfg.ListenAddr),
		zap.String("env", cfg.AppEnv),
	)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if !cfg.IsProdLike() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func buildSessionStore(cfg *config.Config, logger *zap.Logger) intake.SessionStore {
	if cfg.RedisAddr == "" {
		logger.Info("sessions in process memory", zap.Duration("ttl", cfg.SessionTTL))
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	logger.Info("sessions in redis",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("ttl", cfg.SessionTTL),
	)
	return session.NewRedisStore(rdb, cfg.SessionTTL)
}
