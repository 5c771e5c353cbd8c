package repository

import (
	"context"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	GetByNumber(ctx context.Context, number string) (*entity.Subscription, error)
	// GetWithCustomer loads the subscription together with its customer chain,
	// needed for invoice descriptions and billing addresses
	GetWithCustomer(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	List(ctx context.Context, params *SubscriptionFilterParams) ([]entity.Subscription, int64, error)
}

// SubscriptionFilterParams contains filtering parameters for subscription queries
type SubscriptionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SubscriptionStatus
	CustomerID *uuid.UUID
}
