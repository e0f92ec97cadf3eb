package main

// @title Creator Payments API
// @version 1.0
// @description Checkout facade for creator subscription payments.

// @host localhost:3000
// @BasePath /api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creatorpay/checkout/config"
	"github.com/creatorpay/checkout/pkg/api/handlers"
	"github.com/creatorpay/checkout/pkg/checkout"
	"github.com/creatorpay/checkout/pkg/logger"
	"github.com/creatorpay/checkout/pkg/metrics"
	custommiddleware "github.com/creatorpay/checkout/pkg/middleware"
	"github.com/creatorpay/checkout/pkg/notify"
	"github.com/creatorpay/checkout/pkg/profile"
	"github.com/creatorpay/checkout/pkg/webhook"
)

func main() {
	// Load .env if present; real deployments supply the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.Environment)

	appLogger := logger.New(cfg.LogLevel)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Initialize Slack notifications (if webhook URL configured)
	var notifyService *notify.Service
	if cfg.SlackWebhookURL != "" {
		notifyService = notify.NewService(notify.NewWebhookClient(cfg.SlackWebhookURL))
		log.Printf("✅ Slack notifications enabled")
	} else {
		notifyService = notify.NewService(nil)
		log.Printf("ℹ️  Slack notifications disabled (no webhook URL configured)")
	}

	// Initialize services
	profileGateway := profile.NewGateway(cfg.UpstreamBaseURL, cfg.ProfileTimeout(), appLogger)
	profileGateway.SetMetricsRecorder(prometheusMetrics)

	stripeClient := checkout.NewStripeClient(cfg.StripeSecretKey, cfg.StripeTimeout())
	checkoutService := checkout.NewService(stripeClient, profileGateway, cfg.PublicBaseURL, appLogger)
	checkoutService.SetMetricsRecorder(prometheusMetrics)

	reconciler := webhook.NewReconciler(cfg.StripeWebhookSecret, notifyService, appLogger)
	reconciler.SetMetricsRecorder(prometheusMetrics)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.UpstreamBaseURL)
	profileHandler := handlers.NewProfileHandler(profileGateway, appLogger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, appLogger)
	webhookHandler := handlers.NewWebhookHandler(reconciler, appLogger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Initialize rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	webhookRateLimiter := custommiddleware.NewRateLimiter(cfg.WebhookRateLimitPerMinute, cfg.WebhookRateLimitBurst)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	// Prometheus metrics middleware
	e.Use(prometheusMetrics.Middleware())

	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig()))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())

	// Global rate limiting
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Public endpoints
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	{
		api.GET("/profile/:username", profileHandler.GetProfile)
		api.GET("/subscription-plans/:username", profileHandler.GetSubscriptionPlans)
		api.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession)
		api.GET("/session/:session_id", checkoutHandler.GetSession)
		api.POST("/reload-cache", checkoutHandler.ReloadCache)
		// Stripe webhook with its own, higher rate limit
		api.POST("/webhook", webhookHandler.HandleWebhook, webhookRateLimiter.RateLimitMiddleware())
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("🚀 Payment service starting on %s", address)
	log.Printf("🔗 Upstream profile service: %s", cfg.UpstreamBaseURL)
	log.Printf("🔗 Public base URL: %s", cfg.PublicBaseURL)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d), webhook %d req/min (burst: %d)",
		cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst,
		cfg.WebhookRateLimitPerMinute, cfg.WebhookRateLimitBurst)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
