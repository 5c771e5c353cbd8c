package repository

import (
	"context"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProcessRecordRepository defines the interface for audit-record operations
type ProcessRecordRepository interface {
	Create(ctx context.Context, record *entity.ProcessRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessRecord, error)
	GetByNumber(ctx context.Context, number string) (*entity.ProcessRecord, error)
	Update(ctx context.Context, record *entity.ProcessRecord) error
	List(ctx context.Context, params *ProcessRecordFilterParams) ([]entity.ProcessRecord, int64, error)
}

// ProcessRecordFilterParams contains filtering parameters for process record queries
type ProcessRecordFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ProcessStatus
	Type       *enum.ProcessType
}
