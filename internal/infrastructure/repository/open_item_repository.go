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

type openItemRepository struct {
	db *gorm.DB
}

// NewOpenItemRepository creates a new open item repository
func NewOpenItemRepository(db *gorm.DB) domainRepo.OpenItemRepository {
	return &openItemRepository{db: db}
}

func (r *openItemRepository) Create(ctx context.Context, item *entity.OpenItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *openItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.OpenItem, error) {
	var item entity.OpenItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *openItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.OpenItem, error) {
	var item entity.OpenItem
	err := r.db.WithContext(ctx).First(&item, "invoice_id = ?", invoiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *openItemRepository) Update(ctx context.Context, item *entity.OpenItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *openItemRepository) List(ctx context.Context, params *domainRepo.OpenItemFilterParams) ([]entity.OpenItem, int64, error) {
	var items []entity.OpenItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.OpenItem{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SubscriptionID != nil {
		query = query.Where("subscription_id = ?", *params.SubscriptionID)
	}
	if params.DueBefore != nil {
		query = query.Where("due_date < ?", params.DueBefore.Format("2006-01-02"))
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
		Find(&items).Error
	return items, total, err
}

func (r *openItemRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]entity.OpenItem, error) {
	var items []entity.OpenItem
	err := r.db.WithContext(ctx).
		Where("status IN ?", []enum.OpenItemStatus{
			enum.OpenItemStatusOpen,
			enum.OpenItemStatusPartiallyPaid,
			enum.OpenItemStatusOverdue,
		}).
		Where("due_date < ?", asOf.Format("2006-01-02")).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

func (r *openItemRepository) ListByBatchID(ctx context.Context, batchID string) ([]entity.OpenItem, error) {
	var items []entity.OpenItem
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("number ASC").
		Find(&items).Error
	return items, err
}
