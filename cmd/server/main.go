package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/adapter/cache"
	"github.com/fleetops-io/crfms/internal/adapter/http/fiber/handlers"
	"github.com/fleetops-io/crfms/internal/adapter/http/fiber/middleware"
	"github.com/fleetops-io/crfms/internal/adapter/queue"
	"github.com/fleetops-io/crfms/internal/adapter/storage/postgres"
	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
	"github.com/fleetops-io/crfms/internal/service/auth"
	"github.com/fleetops-io/crfms/internal/service/email"
	"github.com/fleetops-io/crfms/internal/service/notification"
	"github.com/fleetops-io/crfms/internal/service/payment"
	"github.com/fleetops-io/crfms/internal/service/pricing"
	"github.com/fleetops-io/crfms/internal/service/reservation"
	"github.com/fleetops-io/crfms/internal/service/vehicle"
	"github.com/fleetops-io/crfms/pkg/config"
)

const (
	serviceName    = "crfms"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting CRFMS",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// 4. Initialize Cache (Redis with in-memory fallback)
	var appCache ports.Cache
	appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 5. Initialize Message Queue (RabbitMQ or NATS)
	var messageQueue queue.MessageQueue
	if cfg.RabbitMQ.Enabled {
		messageQueue, err = queue.NewRabbitMQQueue(cfg.RabbitMQ, logger)
	} else {
		messageQueue, err = queue.NewNATSQueue(cfg.NATS, logger)
	}
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer messageQueue.Close()

	// 6. Initialize Repositories
	vehicleRepo := postgres.NewVehicleRepository(db, logger)
	customerRepo := postgres.NewCustomerRepository(db, logger)
	reservationRepo := postgres.NewReservationRepository(db, logger)
	rentalRepo := postgres.NewRentalRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)
	catalogRepo := postgres.NewCatalogRepository(db, logger)

	// 7. In-process notification hub: customer and agent subscribers,
	// rendered messages land in the structured log.
	notificationHub := notification.NewManager(&notification.ZapSink{Log: logger}, logger)
	notificationHub.Attach(&notification.CustomerSubscriber{})
	notificationHub.Attach(&notification.AgentSubscriber{})

	// 8. Initialize Services (Business Logic Layer)
	authService := auth.NewService(userRepo, customerRepo, appCache, cfg.JWT.Secret, logger)
	pricingService := pricing.NewService(reservationRepo, customerRepo, vehicleRepo, catalogRepo, logger)

	providers := map[domain.PaymentMethod]ports.PaymentProvider{
		domain.PaymentMethodCreditCard: payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey),
		domain.PaymentMethodPayPal: payment.NewPayPalProvider(
			cfg.Payment.PayPal.BaseURL,
			cfg.Payment.PayPal.ClientID,
			cfg.Payment.PayPal.Secret,
		),
	}
	paymentService := payment.NewService(reservationRepo, paymentRepo, providers, logger)

	reservationService := reservation.NewService(
		reservationRepo,
		vehicleRepo,
		rentalRepo,
		pricingService,
		paymentService,
		notificationHub,
		messageQueue,
		logger,
	)
	vehicleService := vehicle.NewService(vehicleRepo, reservationRepo, appCache, messageQueue, logger)

	// 9. Broker-driven notification worker: events published by other
	// instances are delivered by email. The worker feeds its own hub so
	// locally published events are not delivered twice.
	emailService, err := email.NewService(&email.Config{
		Provider:       cfg.Email.Provider,
		FromEmail:      cfg.Email.From,
		FromName:       cfg.Email.FromName,
		SendGridAPIKey: cfg.Email.APIKey,
		SMTPHost:       cfg.Email.SMTPHost,
		SMTPPort:       cfg.Email.SMTPPort,
	}, logger)
	if err != nil {
		logger.Warn("Email service unavailable, broker notifications disabled", zap.Error(err))
	} else {
		brokerHub := notification.NewManager(&email.Sink{Service: emailService, To: "fleet-ops@crfms.local"}, logger)
		brokerHub.Attach(&notification.AgentSubscriber{})
		worker := notification.NewWorker(messageQueue, brokerHub, logger)
		if err := worker.Start(); err != nil {
			logger.Error("Failed to start notification worker", zap.Error(err))
		}
	}

	// 10. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	app.Use(middleware.CircuitBreaker(logger))

	// Health Check Endpoints
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(503).SendString("Database not ready")
		}
		if err := appCache.Ping(); err != nil {
			return c.Status(503).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	// API v1 Routes
	v1 := app.Group("/api/v1")

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	agentOnly := middleware.RequireRole(domain.RoleAgent, domain.RoleManager)
	managerOnly := middleware.RequireRole(domain.RoleManager)

	// Vehicle routes
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, logger)
	protected.Get("/vehicles", vehicleHandler.List)
	protected.Get("/vehicles/:id", vehicleHandler.Get)
	protected.Post("/vehicles", managerOnly, vehicleHandler.Create)
	protected.Post("/vehicles/:id/maintenance", agentOnly, vehicleHandler.AddMaintenanceRecord)
	protected.Post("/vehicles/:id/maintenance/:recordId/approve", managerOnly, vehicleHandler.ApproveMaintenance)

	// Catalog routes: browsing is open to any account, changes are
	// manager work
	catalogHandler := handlers.NewCatalogHandler(pricingService, logger)
	protected.Get("/catalog", catalogHandler.List)
	protected.Post("/catalog/insurance-tiers", managerOnly, catalogHandler.CreateInsuranceTier)
	protected.Post("/catalog/add-ons", managerOnly, catalogHandler.CreateAddOn)

	// Reservation routes
	reservationHandler := handlers.NewReservationHandler(reservationService, pricingService, logger)
	protected.Post("/reservations", reservationHandler.Create)
	protected.Post("/reservations/quote", reservationHandler.Quote)
	protected.Get("/reservations", reservationHandler.ListMine)
	protected.Get("/reservations/:id", reservationHandler.Get)
	protected.Post("/reservations/:id/approve", agentOnly, reservationHandler.Approve)
	protected.Post("/reservations/:id/pay", reservationHandler.Pay)
	protected.Post("/reservations/:id/pickup", agentOnly, reservationHandler.Pickup)
	protected.Post("/reservations/:id/return", agentOnly, reservationHandler.Return)
	protected.Post("/reservations/:id/cancel", reservationHandler.Cancel)

	// 11. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
