package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/controller"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/shopyar/shopyar-backend/internal/middleware"
	"github.com/shopyar/shopyar-backend/internal/router"
	"github.com/shopyar/shopyar-backend/internal/scheduler"
	"github.com/shopyar/shopyar-backend/internal/storage"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"github.com/shopyar/shopyar-backend/pkg/payment/zarinpal"
	"github.com/shopyar/shopyar-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Shopyar Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs rate limiting and token revocation; the server still runs
	// without it
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, rate limiting and logout revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Payment gateway client
	zarinpalClient, err := zarinpal.NewClient(zarinpal.Config{
		MerchantID:     cfg.Payment.Zarinpal.MerchantID,
		BaseURL:        cfg.Payment.Zarinpal.BaseURL,
		PaymentPageURL: cfg.Payment.Zarinpal.PaymentPageURL,
		CallbackURL:    cfg.Payment.Zarinpal.CallbackURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	// Object storage for product images
	s3Storage := storage.NewS3Storage(cfg.S3)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	verificationRepo := repository.NewVerificationRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, verificationRepo, cfg.JWT, cfg.OTP)
	productService := service.NewProductService(productRepo, s3Storage)
	cartService := service.NewCartService(cartRepo, productRepo, db.GetDB())
	gateway := service.NewZarinpalGateway(zarinpalClient)
	orderService := service.NewOrderService(orderRepo, cartRepo, gateway, db.GetDB())
	showcaseService := service.NewShowcaseService(productRepo, cfg.Cron.FeaturedCount, cfg.Cron.LuckyCount)
	addressService := service.NewAddressService(addressRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cartService, cfg.Cart, cfg.JWT)
	productController := controller.NewProductController(productService, showcaseService)
	cartController := controller.NewCartController(cartService, cfg.Cart)
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(orderService)
	addressController := controller.NewAddressController(addressService)
	adminController := controller.NewAdminController(productService, orderService)
	uploadController := controller.NewUploadController(s3Storage)
	showcaseController := controller.NewShowcaseController(showcaseService, cfg.Cron)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the showcase scheduler
	showcaseScheduler := scheduler.NewShowcaseScheduler(showcaseService, cfg.Cron)
	if err := showcaseScheduler.Start(); err != nil {
		logger.Fatal("Failed to start showcase scheduler", err)
	}
	defer showcaseScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		paymentController,
		addressController,
		adminController,
		uploadController,
		showcaseController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
