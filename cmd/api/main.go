package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbase/billforge-api/internal/application/service"
	"github.com/finbase/billforge-api/internal/config"
	"github.com/finbase/billforge-api/internal/infrastructure/database"
	"github.com/finbase/billforge-api/internal/infrastructure/repository"
	"github.com/finbase/billforge-api/internal/presentation/http/handler"
	"github.com/finbase/billforge-api/internal/presentation/http/routes"
	"github.com/finbase/billforge-api/pkg/email"
	"github.com/finbase/billforge-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := newLogger(cfg)

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	dueScheduleRepo := repository.NewDueScheduleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	openItemRepo := repository.NewOpenItemRepository(db)
	processRecordRepo := repository.NewProcessRecordRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	taxRate, err := decimal.NewFromString(cfg.Billing.TaxRate)
	if err != nil {
		log.Fatalf("Invalid tax rate %q: %v", cfg.Billing.TaxRate, err)
	}

	// Initialize services
	analyzer := service.NewBatchAnalyzer(dueScheduleRepo)
	processor := service.NewBatchProcessor(
		subscriptionRepo,
		dueScheduleRepo,
		invoiceRepo,
		openItemRepo,
		taxRate,
		cfg.Billing.PaymentTermDays,
		service.IntegrityPolicy(cfg.Billing.IntegrityPolicy),
		logger,
	)
	orchestrator := service.NewBatchOrchestrator(analyzer, processor, processRecordRepo, logger)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, dueScheduleRepo, openItemRepo)
	openItemService := service.NewOpenItemService(openItemRepo, invoiceRepo, subscriptionRepo, emailService, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, dueScheduleRepo, customerRepo, cfg.Billing.ScheduleMonths)
	customerService := service.NewCustomerService(customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Billing:      handler.NewBillingHandler(orchestrator, processRecordRepo),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		OpenItem:     handler.NewOpenItemHandler(openItemService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Customer:     handler.NewCustomerHandler(customerService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	logger.Info().Str("port", cfg.App.Port).Msg("starting server")
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out = zerolog.New(os.Stdout)
	if cfg.App.Env != "production" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return out.With().Timestamp().Str("service", cfg.App.Name).Logger()
}
