package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/finbase/billforge-api/internal/config"
	domainRepo "github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/internal/presentation/http/handler"
	"github.com/finbase/billforge-api/internal/presentation/http/middleware"
	"github.com/finbase/billforge-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Billing      *handler.BillingHandler
	Invoice      *handler.InvoiceHandler
	OpenItem     *handler.OpenItemHandler
	Subscription *handler.SubscriptionHandler
	Customer     *handler.CustomerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          zerolog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerBillingRoutes(protected, h, deps)
		registerInvoiceRoutes(protected, h)
		registerOpenItemRoutes(protected, h)
		registerSubscriptionRoutes(protected, h)
		registerCustomerRoutes(protected, h)
	}

	return router
}

func registerBillingRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	billing := protected.Group("/billing")
	{
		// Run creation uses idempotency middleware so a retried request
		// cannot start a second billing run
		billing.POST("/runs", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Billing.RunBatch)
		billing.GET("/preview", h.Billing.Preview)
	}

	records := protected.Group("/process-records")
	{
		records.GET("", h.Billing.ListProcessRecords)
		records.GET("/:id", h.Billing.GetProcessRecord)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/payments", h.Invoice.RecordPayment)
		invoices.POST("/:id/cancel", h.Invoice.Cancel)
		invoices.POST("/:id/credit-notes", h.Invoice.CreateCreditNote)
	}
}

func registerOpenItemRoutes(protected *gin.RouterGroup, h *Handlers) {
	openItems := protected.Group("/open-items")
	{
		openItems.GET("", h.OpenItem.List)
		openItems.GET("/:id", h.OpenItem.Get)
		openItems.POST("/:id/payments", h.OpenItem.RecordPayment)
		openItems.POST("/:id/payments/reverse", h.OpenItem.ReversePayment)
		openItems.POST("/:id/reminders", h.OpenItem.SendReminder)
		openItems.POST("/:id/cancel", h.OpenItem.Cancel)
	}
}

func registerSubscriptionRoutes(protected *gin.RouterGroup, h *Handlers) {
	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.GET("", h.Subscription.List)
		subscriptions.POST("", h.Subscription.Create)
		subscriptions.GET("/:id", h.Subscription.Get)
		subscriptions.POST("/:id/renew", h.Subscription.Renew)
		subscriptions.GET("/:id/due-schedules", h.Subscription.ListDueSchedules)
	}

	schedules := protected.Group("/due-schedules")
	{
		schedules.POST("/:id/pause", h.Subscription.PauseDueSchedule)
		schedules.POST("/:id/suspend", h.Subscription.SuspendDueSchedule)
		schedules.POST("/:id/resume", h.Subscription.ResumeDueSchedule)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}
