package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"brittlebones-backend/config"
	_ "brittlebones-backend/docs" // Important for Swagger
	"brittlebones-backend/internal/delivery/http/middleware"
	v1 "brittlebones-backend/internal/delivery/http/v1"
	"brittlebones-backend/internal/usecase"
	"brittlebones-backend/pkg/email"
	"brittlebones-backend/pkg/logger"
	"brittlebones-backend/pkg/payfast"
	"brittlebones-backend/pkg/redis"
	"brittlebones-backend/pkg/validation"
)

// @title           Brittle Bones Backend API
// @version         1.0
// @description     Form relay and PayFast donation links for the Brittle Bones website.
// @host            localhost:5000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel, cfg.Environment)
	defer func() { _ = logger.Log.Sync() }()
	gin.SetMode(ginMode(cfg.Environment))
	logger.Log.Info("Starting brittlebones backend", zap.String("port", cfg.Port))

	// 3. Report missing configuration
	if !checkConfig(cfg) && cfg.StrictConfig {
		logger.Log.Fatal("Required configuration missing and STRICT_CONFIG is set")
	}

	// 4. Setup Redis (optional)
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	var redisClient *goredis.Client
	redisClient, err = redis.New(rootCtx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", zap.Error(err))
		redisClient = nil
	default:
		defer redisClient.Close()
		logger.Log.Info("Connected to Redis")
	}

	// 5. Setup Email Service
	sender, err := email.NewSender(cfg.Mail)
	if err != nil {
		logger.Log.Fatal("Failed to create mail sender", zap.Error(err))
	}
	renderer := email.MustNewRenderer()

	// 6. Setup PayFast
	builder := payfast.NewBuilder(payfast.Config{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		ReturnURL:   cfg.PayFast.ReturnURL,
		CancelURL:   cfg.PayFast.CancelURL,
		NotifyURL:   cfg.PayFast.NotifyURL,
		Passphrase:  cfg.PayFast.Passphrase,
		Sandbox:     cfg.PayFast.Sandbox,
	})

	// 7. Setup UseCases
	validate := validation.New()
	formRelayUC := usecase.NewFormRelayUsecase(sender, renderer, validate, usecase.RelayOptions{
		FromEmail:  cfg.Mail.FromEmail,
		AdminEmail: cfg.Mail.AdminEmail,
		Branding: email.Branding{
			OrgName: cfg.OrgName,
			SiteURL: cfg.OrgSiteURL,
			LogoURL: cfg.OrgLogoURL,
		},
		Timeout: cfg.Mail.Timeout,
	})
	donationUC := usecase.NewDonationUsecase(builder, validate)
	healthUC := usecase.NewHealthUsecase(sender, builder, redisClient)

	// 8. Setup Rate Limiting
	limiter := middleware.NewRateLimiter(middleware.FormRateLimitConfig(
		cfg.RateLimitFormLimit,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
		redisClient,
	))
	go limiter.Cleanup(rootCtx, 5*time.Minute)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		FormRelayUC: formRelayUC,
		DonationUC:  donationUC,
		HealthUC:    healthUC,
		RateLimiter: limiter,
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Form sends may take up to the mail timeout
		WriteTimeout: cfg.Mail.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mail.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}

// checkConfig logs every missing setting and reports whether all are present.
func checkConfig(cfg *config.Config) bool {
	ok := true
	if missing := cfg.MailMissing(); len(missing) > 0 {
		ok = false
		logger.Log.Warn("Mail relay not fully configured - form routes will fail",
			zap.String("transport", cfg.Mail.Transport),
			zap.String("missing", strings.Join(missing, ",")),
		)
	}
	if missing := cfg.PayFastMissing(); len(missing) > 0 {
		ok = false
		logger.Log.Warn("PayFast not fully configured - donation routes will fail",
			zap.String("missing", strings.Join(missing, ",")),
		)
	}
	return ok
}

func ginMode(env string) string {
	switch env {
	case gin.ReleaseMode, gin.TestMode:
		return env
	default:
		return gin.DebugMode
	}
}
