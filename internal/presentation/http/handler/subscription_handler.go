package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbase/billforge-api/internal/application/service"
	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/request"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/response"
	"github.com/finbase/billforge-api/pkg/pagination"
)

// SubscriptionHandler exposes subscription and due schedule endpoints
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// List returns a filtered, paginated subscription listing
func (h *SubscriptionHandler) List(c *gin.Context) {
	var filter request.SubscriptionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SubscriptionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.Status != "" {
		status, err := enum.ParseSubscriptionStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid subscription status")
			return
		}
		params.Status = &status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	subscriptions, total, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.Pagination.Validate()
	result := pagination.NewPaginatedResult(subscriptions, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Subscriptions retrieved", result)
}

// Get returns one subscription by id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid subscription ID")
		return
	}
	subscription, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Subscription retrieved", subscription)
}

// Create creates a subscription and provisions its first year of schedules
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req request.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.MonthlyAmount)
	if err != nil {
		response.BadRequest(c, "Invalid monthly amount")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date")
		return
	}

	subscription, err := h.subscriptionService.CreateSubscription(c.Request.Context(), service.CreateSubscriptionInput{
		CustomerID:      req.CustomerID,
		ProductName:     req.ProductName,
		Description:     req.Description,
		MonthlyAmount:   amount,
		PaymentTermDays: req.PaymentTermDays,
		StartDate:       startDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Subscription created successfully", subscription)
}

// Renew extends the subscription's schedule horizon by the requested months
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid subscription ID")
		return
	}
	var req request.RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	subscription, err := h.subscriptionService.RenewSubscription(c.Request.Context(), id, req.Months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Subscription renewed successfully", subscription)
}

// ListDueSchedules returns all schedules of one subscription
func (h *SubscriptionHandler) ListDueSchedules(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid subscription ID")
		return
	}
	schedules, err := h.subscriptionService.ListDueSchedules(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Due schedules retrieved", schedules)
}

// PauseDueSchedule takes a schedule out of billing scope reversibly
func (h *SubscriptionHandler) PauseDueSchedule(c *gin.Context) {
	h.transitionSchedule(c, h.subscriptionService.PauseDueSchedule, "Due schedule paused")
}

// SuspendDueSchedule takes a schedule out of billing scope for dunning
func (h *SubscriptionHandler) SuspendDueSchedule(c *gin.Context) {
	h.transitionSchedule(c, h.subscriptionService.SuspendDueSchedule, "Due schedule suspended")
}

// ResumeDueSchedule returns a paused or suspended schedule to billing scope
func (h *SubscriptionHandler) ResumeDueSchedule(c *gin.Context) {
	h.transitionSchedule(c, h.subscriptionService.ResumeDueSchedule, "Due schedule resumed")
}

func (h *SubscriptionHandler) transitionSchedule(c *gin.Context, transition func(context.Context, uuid.UUID) (*entity.DueSchedule, error), message string) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid due schedule ID")
		return
	}
	schedule, err := transition(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, schedule)
}
