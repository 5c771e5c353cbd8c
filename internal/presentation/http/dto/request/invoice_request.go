package request

import "github.com/google/uuid"

// CreateInvoiceItemRequest represents one line of a manual invoice
type CreateInvoiceItemRequest struct {
	Description string `json:"description" binding:"required,max=500"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	TaxRate     string `json:"tax_rate"`
	ItemType    *int   `json:"item_type"`
}

// CreateInvoiceRequest represents a manual invoice creation request
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID                  `json:"customer_id" binding:"required"`
	DueDate    string                     `json:"due_date" binding:"required,datetime=2006-01-02"`
	Discount   string                     `json:"discount"`
	Items      []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordPaymentRequest represents a payment fact against an invoice or an
// open item
type RecordPaymentRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"method" binding:"required,max=50"`
	Reference string `json:"reference" binding:"max=255"`
}

// ReversePaymentRequest undoes part or all of a recorded payment
type ReversePaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Type       string `form:"type"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	BatchID    string `form:"batch_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
