package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbase/billforge-api/internal/application/service"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/request"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/response"
	"github.com/finbase/billforge-api/pkg/pagination"
)

// OpenItemHandler exposes receivable endpoints
type OpenItemHandler struct {
	openItemService *service.OpenItemService
}

// NewOpenItemHandler creates a new open item handler
func NewOpenItemHandler(openItemService *service.OpenItemService) *OpenItemHandler {
	return &OpenItemHandler{openItemService: openItemService}
}

// List returns a filtered, paginated receivable listing
func (h *OpenItemHandler) List(c *gin.Context) {
	var filter request.OpenItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OpenItemFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	if filter.Status != "" {
		status, err := enum.ParseOpenItemStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid open item status")
			return
		}
		params.Status = &status
	}
	if filter.SubscriptionID != "" {
		subscriptionID, err := uuid.Parse(filter.SubscriptionID)
		if err != nil {
			response.BadRequest(c, "Invalid subscription ID")
			return
		}
		params.SubscriptionID = &subscriptionID
	}
	if filter.DueBefore != "" {
		dueBefore, err := parseDate(filter.DueBefore)
		if err != nil {
			response.BadRequest(c, "Invalid due before date")
			return
		}
		params.DueBefore = &dueBefore
	}
	if filter.BatchID != "" {
		params.BatchID = &filter.BatchID
	}

	items, total, err := h.openItemService.ListOpenItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.Pagination.Validate()
	result := pagination.NewPaginatedResult(items, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Open items retrieved", result)
}

// Get returns one receivable by id
func (h *OpenItemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid open item ID")
		return
	}
	item, err := h.openItemService.GetOpenItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open item retrieved", item)
}

// RecordPayment applies a payment against the receivable and forwards it to
// the linked invoice and subscription
func (h *OpenItemHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid open item ID")
		return
	}
	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.BadRequest(c, "Invalid payment amount")
		return
	}

	item, err := h.openItemService.RecordPayment(c.Request.Context(), id, amount, req.Method, req.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded successfully", item)
}

// ReversePayment backs out part or all of the recorded payments
func (h *OpenItemHandler) ReversePayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid open item ID")
		return
	}
	var req request.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.BadRequest(c, "Invalid reversal amount")
		return
	}

	item, err := h.openItemService.ReversePayment(c.Request.Context(), id, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment reversed successfully", item)
}

// SendReminder escalates the reminder level and emails the customer
func (h *OpenItemHandler) SendReminder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid open item ID")
		return
	}
	item, err := h.openItemService.SendReminder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reminder sent successfully", item)
}

// Cancel writes off the receivable
func (h *OpenItemHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid open item ID")
		return
	}
	item, err := h.openItemService.CancelOpenItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open item cancelled successfully", item)
}
