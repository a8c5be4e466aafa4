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
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/thesbsofficial/unity-v3-sub000/internal/config"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler/middleware"
	"github.com/thesbsofficial/unity-v3-sub000/internal/migrations"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository/postgres"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/email"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/images"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/ratelimit"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	// Run embedded migrations when enabled
	if cfg.Database.Migrate {
		if err := runMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("✓ Database migrations applied")
	}

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	// Decide which session layouts this database supports
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	capability, err := postgres.ResolveSessionSchema(probeCtx, db, cfg.Auth.SessionSchema)
	probeCancel()
	if err != nil {
		log.Fatalf("Failed to resolve session schema: %v", err)
	}
	log.Printf("✓ Session schema capability: %s", capability)

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Login lockout backed by Redis
	loginLimiter := ratelimit.NewLoginLimiter(redisClient, cfg.Auth.MaxFailedLogins, cfg.Auth.LockDuration)

	// Initialize email service
	var emailService email.EmailService = email.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := email.NewResendEmailService(&email.EmailConfig{
			APIKey:    cfg.Email.APIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			ResetURL:  cfg.Email.ResetURL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize email service: %v", err)
			log.Println("Email functionality will be disabled")
		} else {
			emailService = resendService
			log.Println("✓ Email service initialized (Resend)")
		}
	} else {
		log.Println("ℹ Email service disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Initialize image storage
	var imageStore service.ImageStore = service.NoopImageStore{}
	if cfg.Images.Enabled {
		store, err := images.NewStore(context.Background(), images.Config{
			Region:    cfg.Images.Region,
			Bucket:    cfg.Images.Bucket,
			AccessKey: cfg.Images.AccessKey,
			SecretKey: cfg.Images.SecretKey,
			Endpoint:  cfg.Images.Endpoint,
			PublicURL: cfg.Images.PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		imageStore = store
		log.Printf("✓ Image storage initialized (bucket %s)", cfg.Images.Bucket)
	} else {
		log.Println("ℹ Image storage disabled (set IMAGES_ENABLED=true to enable)")
	}

	// Initialize services
	sessionService := service.NewSessionService(sessionRepo, capability, cfg.Auth.SessionTTL)
	authService := service.NewAuthService(userRepo, sessionService, loginLimiter, emailService, cfg)
	productService := service.NewProductService(productRepo, imageStore)
	orderService := service.NewOrderService(orderRepo, productRepo, emailService)
	sellService := service.NewSellService(submissionRepo, emailService)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	productHandler := handler.NewProductHandler(productService, validate)
	orderHandler := handler.NewOrderHandler(orderService, validate)
	sellHandler := handler.NewSellHandler(sellService, validate)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, validate)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SBS Marketplace v1.0",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    12 << 20,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// Setup routes
	handler.SetupRoutes(
		app,
		sessionService,
		authHandler,
		productHandler,
		orderHandler,
		sellHandler,
		analyticsHandler,
		healthHandler,
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			// Don't use log.Fatalf in goroutine, send error to main
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies the embedded goose migrations
func runMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// customErrorHandler handles Fiber errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Log error for debugging (sanitized)
	log.Printf("Error handling request [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
