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

// InvoiceHandler exposes invoice lifecycle endpoints
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List returns a filtered, paginated invoice listing
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.Status != "" {
		status, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid invoice status")
			return
		}
		params.Status = &status
	}
	if filter.Type != "" {
		invType, err := enum.ParseInvoiceType(filter.Type)
		if err != nil {
			response.BadRequest(c, "Invalid invoice type")
			return
		}
		params.Type = &invType
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if filter.StartDate != "" {
		startDate, err := parseDate(filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date")
			return
		}
		params.StartDate = &startDate
	}
	if filter.EndDate != "" {
		endDate, err := parseDate(filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date")
			return
		}
		params.EndDate = &endDate
	}
	if filter.BatchID != "" {
		params.BatchID = &filter.BatchID
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.Pagination.Validate()
	result := pagination.NewPaginatedResult(invoices, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved", result)
}

// Get returns one invoice with its items, linked schedules and credit notes
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved", invoice)
}

// Create creates a manual invoice from the posted line items
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due date")
		return
	}
	discount := decimal.Zero
	if req.Discount != "" {
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil || discount.IsNegative() {
			response.BadRequest(c, "Invalid discount amount")
			return
		}
	}

	items := make([]service.ManualInvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		input, err := buildItemInput(item)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		items = append(items, input)
	}

	invoice, err := h.invoiceService.CreateManualInvoice(c.Request.Context(), req.CustomerID, dueDate, items, discount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created successfully", invoice)
}

func buildItemInput(item request.CreateInvoiceItemRequest) (service.ManualInvoiceItemInput, error) {
	quantity, err := decimal.NewFromString(item.Quantity)
	if err != nil || !quantity.IsPositive() {
		return service.ManualInvoiceItemInput{}, errInvalidDecimal("quantity", item.Description)
	}
	unitPrice, err := decimal.NewFromString(item.UnitPrice)
	if err != nil {
		return service.ManualInvoiceItemInput{}, errInvalidDecimal("unit price", item.Description)
	}
	taxRate := decimal.Zero
	if item.TaxRate != "" {
		taxRate, err = decimal.NewFromString(item.TaxRate)
		if err != nil || taxRate.IsNegative() {
			return service.ManualInvoiceItemInput{}, errInvalidDecimal("tax rate", item.Description)
		}
	}
	itemType := enum.InvoiceItemTypeService
	if item.ItemType != nil {
		itemType = enum.InvoiceItemType(*item.ItemType)
	}
	return service.ManualInvoiceItemInput{
		Description: item.Description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		ItemType:    itemType,
	}, nil
}

// RecordPayment applies a payment against the invoice and forwards the
// proportional shares to its linked due schedules
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
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

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), id, amount, req.Method, req.Reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded successfully", invoice)
}

// Cancel cancels the invoice and releases its linked schedules and open item
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}
	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice cancelled successfully", invoice)
}

// CreateCreditNote issues a credit note mirroring the invoice with negated
// amounts
func (h *InvoiceHandler) CreateCreditNote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}
	creditNote, err := h.invoiceService.CreateCreditNote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Credit note created successfully", creditNote)
}
