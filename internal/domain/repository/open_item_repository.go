package repository

import (
	"context"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/google/uuid"
)

// OpenItemRepository defines the interface for receivable data operations
type OpenItemRepository interface {
	Create(ctx context.Context, item *entity.OpenItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error)
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.OpenItem, error)
	Update(ctx context.Context, item *entity.OpenItem) error
	List(ctx context.Context, params *OpenItemFilterParams) ([]entity.OpenItem, int64, error)
	// ListOverdue returns unpaid items whose due date lies before asOf,
	// for reminder runs
	ListOverdue(ctx context.Context, asOf time.Time) ([]entity.OpenItem, error)
	ListByBatchID(ctx context.Context, batchID string) ([]entity.OpenItem, error)
}

// OpenItemFilterParams contains filtering parameters for open item queries
type OpenItemFilterParams struct {
	Pagination     *pagination.PaginationParams
	Status         *enum.OpenItemStatus
	SubscriptionID *uuid.UUID
	DueBefore      *time.Time
	BatchID        *string
}
