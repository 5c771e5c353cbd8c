package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	BillingStreet *string `json:"billing_street" binding:"omitempty,max=255"`
	BillingZip    *string `json:"billing_zip" binding:"omitempty,max=20"`
	BillingCity   *string `json:"billing_city" binding:"omitempty,max=100"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	BillingStreet *string `json:"billing_street" binding:"omitempty,max=255"`
	BillingZip    *string `json:"billing_zip" binding:"omitempty,max=20"`
	BillingCity   *string `json:"billing_city" binding:"omitempty,max=100"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
