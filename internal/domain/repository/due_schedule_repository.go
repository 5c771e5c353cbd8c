package repository

import (
	"context"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	"github.com/finbase/billforge-api/pkg/pagination"
	"github.com/google/uuid"
)

// DueScheduleRepository defines the interface for due schedule data operations
type DueScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.DueSchedule) error
	CreateBatch(ctx context.Context, schedules []entity.DueSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DueSchedule, error)
	Update(ctx context.Context, schedule *entity.DueSchedule) error
	// Delete soft-deletes a schedule; schedules that have been invoiced are
	// never hard-deleted
	Delete(ctx context.Context, id uuid.UUID) error
	// ListDue returns every Active schedule eligible for the billing date,
	// ordered by due date then number. With includeOverdue the selection is
	// dueDate <= billingDate, otherwise dueDate == billingDate.
	ListDue(ctx context.Context, billingDate time.Time, includeOverdue bool) ([]entity.DueSchedule, error)
	// CountDue answers "is there anything to bill" without materializing rows
	CountDue(ctx context.Context, billingDate time.Time, includeOverdue bool) (int64, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]entity.DueSchedule, error)
	ListByBatchID(ctx context.Context, batchID string) ([]entity.DueSchedule, error)
	List(ctx context.Context, params *DueScheduleFilterParams) ([]entity.DueSchedule, int64, error)
}

// DueScheduleFilterParams contains filtering parameters for due schedule queries
type DueScheduleFilterParams struct {
	Pagination     *pagination.PaginationParams
	Status         *enum.DueScheduleStatus
	SubscriptionID *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	BatchID        *string
}
