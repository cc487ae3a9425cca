package repository

import (
	"context"

	"changeready_go/internal/model"

	"gorm.io/gorm"
)

// MeasureRepository 变革措施只在聚合中计数。
type MeasureRepository interface {
	CountActiveByCompany(ctx context.Context, companyID uint) (int64, error)
}

type measureRepository struct {
	db *gorm.DB
}

func NewMeasureRepository(db *gorm.DB) MeasureRepository {
	return &measureRepository{db: db}
}

// CountActiveByCompany 统计 OPEN 与 IN_PROGRESS 状态的措施数量。
func (r *measureRepository) CountActiveByCompany(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Measure{}).
		Where("company_id = ? AND status IN ?", companyID, []model.MeasureStatus{model.MeasureOpen, model.MeasureInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
