package service

import (
	"context"
	"fmt"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/finbase/billforge-api/pkg/apperror"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/finbase/billforge-api/pkg/utils"
	"github.com/google/uuid"
)

// CustomerService handles customer business logic
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput carries the fields for a new customer
type CreateCustomerInput struct {
	Name          string
	Email         *string
	Phone         *string
	BillingStreet *string
	BillingZip    *string
	BillingCity   *string
}

// CreateCustomer creates a new customer with a generated number
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Number:        utils.GenerateNumber(utils.PrefixCustomer),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		BillingStreet: input.BillingStreet,
		BillingZip:    input.BillingZip,
		BillingCity:   input.BillingCity,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("persisting customer: %w", err)
	}
	return customer, nil
}

// GetCustomer returns one customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer applies the provided fields to the customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input CreateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.BillingStreet != nil {
		customer.BillingStreet = input.BillingStreet
	}
	if input.BillingZip != nil {
		customer.BillingZip = input.BillingZip
	}
	if input.BillingCity != nil {
		customer.BillingCity = input.BillingCity
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer soft-deletes the customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers returns a paginated customer listing with optional search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, params, search)
}
