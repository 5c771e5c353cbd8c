package request

import "github.com/google/uuid"

// CreateSubscriptionRequest represents a subscription creation request
type CreateSubscriptionRequest struct {
	CustomerID      uuid.UUID `json:"customer_id" binding:"required"`
	ProductName     string    `json:"product_name" binding:"required,min=2,max=255"`
	Description     *string   `json:"description"`
	MonthlyAmount   string    `json:"monthly_amount" binding:"required"`
	PaymentTermDays int       `json:"payment_term_days" binding:"omitempty,min=1,max=365"`
	StartDate       string    `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// RenewSubscriptionRequest extends a subscription's schedule horizon
type RenewSubscriptionRequest struct {
	Months int `json:"months" binding:"required,min=1,max=60"`
}

// SubscriptionFilterRequest represents subscription filter parameters
type SubscriptionFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// OpenItemFilterRequest represents open item filter parameters
type OpenItemFilterRequest struct {
	Status         string `form:"status"`
	SubscriptionID string `form:"subscription_id"`
	DueBefore      string `form:"due_before"`
	BatchID        string `form:"batch_id"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}
