package repository

import (
	"context"

	"changeready_go/internal/model"

	"gorm.io/gorm"
)

// SurveyTemplateRepository 问卷模板读取。
// 除 FindByID 外，所有查询都带公司条件：只返回全局模板或本公司模板。
type SurveyTemplateRepository interface {
	// FindByID 不做租户过滤，仅供创建实例时区分"不存在"和"不属于本公司"。
	FindByID(ctx context.Context, id uint) (*model.SurveyTemplate, error)
	FindVisibleByID(ctx context.Context, companyID, id uint) (*model.SurveyTemplate, error)
	FindVisibleByIDs(ctx context.Context, companyID uint, ids []uint) ([]model.SurveyTemplate, error)
	FindActiveVisible(ctx context.Context, companyID uint) ([]model.SurveyTemplate, error)
}

type surveyTemplateRepository struct {
	db *gorm.DB
}

func NewSurveyTemplateRepository(db *gorm.DB) SurveyTemplateRepository {
	return &surveyTemplateRepository{db: db}
}

func (r *surveyTemplateRepository) FindByID(ctx context.Context, id uint) (*model.SurveyTemplate, error) {
	var tpl model.SurveyTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *surveyTemplateRepository) FindVisibleByID(ctx context.Context, companyID, id uint) (*model.SurveyTemplate, error) {
	var tpl model.SurveyTemplate
	if err := r.db.WithContext(ctx).
		Where("id = ? AND (company_id IS NULL OR company_id = ?)", id, companyID).
		First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *surveyTemplateRepository) FindVisibleByIDs(ctx context.Context, companyID uint, ids []uint) ([]model.SurveyTemplate, error) {
	if len(ids) == 0 {
		return []model.SurveyTemplate{}, nil
	}
	var tpls []model.SurveyTemplate
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND (company_id IS NULL OR company_id = ?)", ids, companyID).
		Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}

// FindActiveVisible 返回启用中的全局模板和本公司模板，全局模板在前。
func (r *surveyTemplateRepository) FindActiveVisible(ctx context.Context, companyID uint) ([]model.SurveyTemplate, error) {
	var tpls []model.SurveyTemplate
	if err := r.db.WithContext(ctx).
		Where("active = ? AND (company_id IS NULL OR company_id = ?)", true, companyID).
		Order("company_id IS NOT NULL, id ASC").
		Find(&tpls).Error; err != nil {
		return nil, err
	}
	return tpls, nil
}
