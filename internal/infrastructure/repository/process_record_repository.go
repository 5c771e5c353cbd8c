package repository

import (
	"context"
	"errors"

	"github.com/finbase/billforge-api/internal/domain/entity"
	domainRepo "github.com/finbase/billforge-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type processRecordRepository struct {
	db *gorm.DB
}

// NewProcessRecordRepository creates a new process record repository
func NewProcessRecordRepository(db *gorm.DB) domainRepo.ProcessRecordRepository {
	return &processRecordRepository{db: db}
}

func (r *processRecordRepository) Create(ctx context.Context, record *entity.ProcessRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *processRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProcessRecord, error) {
	var record entity.ProcessRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *processRecordRepository) GetByNumber(ctx context.Context, number string) (*entity.ProcessRecord, error) {
	var record entity.ProcessRecord
	err := r.db.WithContext(ctx).First(&record, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *processRecordRepository) Update(ctx context.Context, record *entity.ProcessRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *processRecordRepository) List(ctx context.Context, params *domainRepo.ProcessRecordFilterParams) ([]entity.ProcessRecord, int64, error) {
	var records []entity.ProcessRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProcessRecord{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("started_at DESC").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&records).Error
	return records, total, err
}
