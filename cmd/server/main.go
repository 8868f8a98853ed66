package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/email"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database, with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs cross-replica rate limiting; fall back to the
	// in-process store when it is unreachable
	var rateLimitStore cache.RateLimitStore
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory rate limiting", zap.Error(err))
		redisClient = nil
		rateLimitStore = cache.NewMemoryRateLimitStore()
	} else {
		rateLimitStore = cache.NewRedisRateLimitStore(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Supporting infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	mailer := buildMailer(cfg, log)
	imageStorage := buildImageStorage(cfg, log)

	// Application services
	policy := order.PricingPolicy{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.Order.FreeShippingThreshold),
		ShippingFlatFee:       decimal.NewFromFloat(cfg.Order.ShippingFlatFee),
		TaxRate:               decimal.NewFromFloat(cfg.Order.TaxRate),
	}
	refundWindow := time.Duration(cfg.Order.RefundWindowDays) * 24 * time.Hour
	newArrivalsWindow := time.Duration(cfg.Order.NewArrivalsWindowDays) * 24 * time.Hour

	identityService := identityapp.NewService(userRepo, jwtService, mailer, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, imageStorage, newArrivalsWindow)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	cartService := cartapp.NewService(cartRepo, productRepo)
	orderService := orderapp.NewService(orderRepo, cartRepo, productRepo, userRepo, db, policy, refundWindow, mailer, log)
	gateway := paymentapp.NewSimulatedGateway(cfg.Payment.CardDeclineRate)
	paymentService := paymentapp.NewService(orderRepo, userRepo, gateway, db)
	adminService := adminapp.NewService(orderRepo, productRepo, userRepo)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	if err := dto.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
	)
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Store:  rateLimitStore,
			Limit:  int64(cfg.HTTP.RateLimitRequests),
			Window: cfg.HTTP.RateLimitWindow,
			Logger: log,
		}))
	}

	routerOpts := []router.RouterOption{}
	if cfg.HTTP.AuthRateLimitEnabled {
		routerOpts = append(routerOpts, router.WithAuthRateLimit(
			middleware.RateLimit(middleware.RateLimitConfig{
				Store:  rateLimitStore,
				Limit:  int64(cfg.HTTP.AuthRateLimitRequests),
				Window: cfg.HTTP.AuthRateLimitWindow,
				Logger: log,
			}),
		))
	}

	handlers := router.Handlers{
		System:   handler.NewSystemHandler(db.DB, redisClient),
		Auth:     handler.NewAuthHandler(identityService),
		Account:  handler.NewAccountHandler(identityService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService, paymentService),
		Admin:    handler.NewAdminHandler(adminService),
	}
	router.NewRouter(engine, jwtService, handlers, routerOpts...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildMailer returns the outbound mailer. Delivery is log-only; the
// enabled flag just controls whether anything is emitted at all.
func buildMailer(cfg *config.Config, log *zap.Logger) email.Mailer {
	if !cfg.Email.Enabled {
		return nil
	}
	return email.NewLogMailer(log.With(
		zap.String("from", cfg.Email.FromAddress),
		zap.String("from_name", cfg.Email.FromName),
	))
}

// buildImageStorage wires S3-compatible object storage when configured,
// otherwise a stub that rejects upload requests
func buildImageStorage(cfg *config.Config, log *zap.Logger) catalogapp.ImageStorage {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, product image uploads unavailable")
		return storage.NewStubImageStorage(log)
	}

	s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3Storage.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}

	log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	return s3Storage
}
