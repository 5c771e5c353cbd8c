package handler

import (
	"net/http"

	"github.com/finbase/billforge-api/internal/application/service"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/request"
	"github.com/finbase/billforge-api/internal/presentation/http/dto/response"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// BillingHandler exposes billing runs, previews and their audit records
type BillingHandler struct {
	orchestrator      *service.BatchOrchestrator
	processRecordRepo repository.ProcessRecordRepository
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(orchestrator *service.BatchOrchestrator, processRecordRepo repository.ProcessRecordRepository) *BillingHandler {
	return &BillingHandler{orchestrator: orchestrator, processRecordRepo: processRecordRepo}
}

// RunBatch starts a billing run for the requested billing date
func (h *BillingHandler) RunBatch(c *gin.Context) {
	var req request.RunBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	billingDate, err := parseDate(req.BillingDate)
	if err != nil {
		response.BadRequest(c, "Invalid billing date")
		return
	}

	triggeredBy := GetUserEmail(c)
	if triggeredBy == "" {
		triggeredBy = "api"
	}

	result, err := h.orchestrator.RunInvoiceBatch(c.Request.Context(), billingDate, req.OverdueIncluded(), triggeredBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Billing run completed", result)
}

// Preview returns the dry-run projection for a billing date
func (h *BillingHandler) Preview(c *gin.Context) {
	var req request.PreviewBatchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	billingDate, err := parseDate(req.BillingDate)
	if err != nil {
		response.BadRequest(c, "Invalid billing date")
		return
	}

	preview, err := h.orchestrator.Preview(c.Request.Context(), billingDate, req.OverdueIncluded())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Billing preview generated", preview)
}

// ListProcessRecords lists billing audit records
func (h *BillingHandler) ListProcessRecords(c *gin.Context) {
	var filter request.ProcessRecordFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProcessRecordFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	if filter.Status != "" {
		if status, err := enum.ParseProcessStatus(filter.Status); err == nil {
			params.Status = &status
		}
	}
	if filter.Type != "" {
		if pType, err := enum.ParseProcessType(filter.Type); err == nil {
			params.Type = &pType
		}
	}

	records, total, err := h.processRecordRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.Pagination.Validate()
	result := pagination.NewPaginatedResult(records, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Process records retrieved", result)
}

// GetProcessRecord returns one audit record by id
func (h *BillingHandler) GetProcessRecord(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid process record ID")
		return
	}
	record, err := h.processRecordRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if record == nil {
		response.NotFound(c, "Process record not found")
		return
	}
	response.OK(c, "Process record retrieved", record)
}
