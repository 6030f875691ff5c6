// Package main provides the main entry point for the Simorgh campaign dispatch service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/mkarimzade/Simorgh/app/handlers"
	"github.com/mkarimzade/Simorgh/app/router"
	"github.com/mkarimzade/Simorgh/app/scheduler"
	"github.com/mkarimzade/Simorgh/app/services"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
	"github.com/mkarimzade/Simorgh/config"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.Config
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Simorgh...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Lead{},
		&models.SentEmail{},
		&models.DispatchInconsistency{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// A missing cache is not fatal; stats queries just skip caching.
func initializeCache(cfg config.CacheConfig) *redis.Client {
	rc := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s:%d, continuing without cache: %v", cfg.Host, cfg.Port, err)
		_ = rc.Close()
		return nil
	}

	log.Printf("Redis connection established to %s:%d (db=%d)", cfg.Host, cfg.Port, cfg.DB)
	return rc
}

// initializeMailSender selects the outbound mail provider
func initializeMailSender(cfg config.MailerConfig) (services.MailSender, error) {
	switch cfg.Provider {
	case "smtp":
		return services.NewSMTPMailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), nil
	case "ses":
		return services.NewSESMailSender(context.Background(), cfg.SESRegion)
	default:
		log.Println("Using mock mail sender; no real email will be delivered")
		return services.NewMockMailSender(), nil
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.Config) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc := initializeCache(cfg.Cache)
	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	// Initialize repositories
	campaignRepo := repository.NewCampaignRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	sentEmailRepo := repository.NewSentEmailRepository(db)
	inconsistencyRepo := repository.NewDispatchInconsistencyRepository(db)

	mailer, err := initializeMailSender(cfg.Mailer)
	if err != nil {
		return nil, err
	}

	// Initialize dispatcher
	dispatcher := scheduler.NewDispatcher(
		campaignRepo,
		leadRepo,
		sentEmailRepo,
		inconsistencyRepo,
		scheduler.NewGormTxRunner(db),
		mailer,
		nil,
		cfg.Dispatch,
	)

	if cfg.Dispatch.Enabled {
		stopDispatcher := dispatcher.Start(context.Background())
		stopFuncs = append(stopFuncs, stopDispatcher)
		log.Printf("Dispatch scheduler started with interval %s", cfg.Dispatch.Interval)
	} else {
		log.Println("Dispatch scheduler disabled; ticks only run via the trigger endpoint")
	}

	// Initialize business flows
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, leadRepo, db, rc, &cfg.Cache)
	leadFlow := businessflow.NewLeadFlow(leadRepo, db)
	dispatchFlow := businessflow.NewDispatchFlow(dispatcher, campaignRepo, sentEmailRepo, inconsistencyRepo)

	// Initialize handlers
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	leadHandler := handlers.NewLeadHandler(leadFlow)
	dispatchHandler := handlers.NewDispatchHandler(dispatchFlow)

	appRouter := router.NewFiberRouter(campaignHandler, leadHandler, dispatchHandler, cfg.Server)

	application := &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
