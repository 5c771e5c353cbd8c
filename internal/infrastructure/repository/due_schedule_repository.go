package repository

import (
	"context"
	"errors"
	"time"

	"github.com/finbase/billforge-api/internal/domain/entity"
	"github.com/finbase/billforge-api/internal/domain/enum"
	domainRepo "github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dueScheduleRepository struct {
	db *gorm.DB
}

// NewDueScheduleRepository creates a new due schedule repository
func NewDueScheduleRepository(db *gorm.DB) domainRepo.DueScheduleRepository {
	return &dueScheduleRepository{db: db}
}

func (r *dueScheduleRepository) Create(ctx context.Context, schedule *entity.DueSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *dueScheduleRepository) CreateBatch(ctx context.Context, schedules []entity.DueSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

func (r *dueScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DueSchedule, error) {
	var schedule entity.DueSchedule
	err := r.db.WithContext(ctx).First(&schedule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &schedule, err
}

func (r *dueScheduleRepository) Update(ctx context.Context, schedule *entity.DueSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *dueScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DueSchedule{}, "id = ?", id).Error
}

// dueQuery builds the eligibility selection shared by ListDue and CountDue
func (r *dueScheduleRepository) dueQuery(ctx context.Context, billingDate time.Time, includeOverdue bool) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&entity.DueSchedule{}).
		Where("status = ?", enum.DueScheduleStatusActive)
	day := billingDate.Format("2006-01-02")
	if includeOverdue {
		return query.Where("due_date <= ?", day)
	}
	return query.Where("due_date = ?", day)
}

func (r *dueScheduleRepository) ListDue(ctx context.Context, billingDate time.Time, includeOverdue bool) ([]entity.DueSchedule, error) {
	var schedules []entity.DueSchedule
	err := r.dueQuery(ctx, billingDate, includeOverdue).
		Order("due_date ASC, number ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *dueScheduleRepository) CountDue(ctx context.Context, billingDate time.Time, includeOverdue bool) (int64, error) {
	var count int64
	err := r.dueQuery(ctx, billingDate, includeOverdue).Count(&count).Error
	return count, err
}

func (r *dueScheduleRepository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]entity.DueSchedule, error) {
	var schedules []entity.DueSchedule
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("due_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *dueScheduleRepository) ListByBatchID(ctx context.Context, batchID string) ([]entity.DueSchedule, error) {
	var schedules []entity.DueSchedule
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("due_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *dueScheduleRepository) List(ctx context.Context, params *domainRepo.DueScheduleFilterParams) ([]entity.DueSchedule, int64, error) {
	var schedules []entity.DueSchedule
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DueSchedule{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SubscriptionID != nil {
		query = query.Where("subscription_id = ?", *params.SubscriptionID)
	}
	if params.StartDate != nil {
		query = query.Where("due_date >= ?", params.StartDate.Format("2006-01-02"))
	}
	if params.EndDate != nil {
		query = query.Where("due_date <= ?", params.EndDate.Format("2006-01-02"))
	}
	if params.BatchID != nil {
		query = query.Where("batch_id = ?", *params.BatchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("due_date ASC, number ASC").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&schedules).Error
	return schedules, total, err
}
