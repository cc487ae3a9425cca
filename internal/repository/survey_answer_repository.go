package repository

import (
	"context"

	"changeready_go/internal/model"

	"gorm.io/gorm"
)

// SurveyAnswerRepository 答案读取。写入统一经由 SurveyInstanceRepository 的事务完成。
// 查询通过 JOIN survey_instances 限定公司，调用方传入的实例 ID 即使越权也查不到数据。
type SurveyAnswerRepository interface {
	FindByInstance(ctx context.Context, companyID, instanceID uint) ([]model.SurveyAnswer, error)
	FindByInstances(ctx context.Context, companyID uint, instanceIDs []uint) ([]model.SurveyAnswer, error)
	CountByInstances(ctx context.Context, companyID uint, instanceIDs []uint) (map[uint]int, error)
}

type surveyAnswerRepository struct {
	db *gorm.DB
}

func NewSurveyAnswerRepository(db *gorm.DB) SurveyAnswerRepository {
	return &surveyAnswerRepository{db: db}
}

func (r *surveyAnswerRepository) scoped(ctx context.Context, companyID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.SurveyAnswer{}).
		Joins("JOIN survey_instances ON survey_instances.id = survey_answers.instance_id").
		Where("survey_instances.company_id = ?", companyID)
}

func (r *surveyAnswerRepository) FindByInstance(ctx context.Context, companyID, instanceID uint) ([]model.SurveyAnswer, error) {
	return r.FindByInstances(ctx, companyID, []uint{instanceID})
}

func (r *surveyAnswerRepository) FindByInstances(ctx context.Context, companyID uint, instanceIDs []uint) ([]model.SurveyAnswer, error) {
	if len(instanceIDs) == 0 {
		return []model.SurveyAnswer{}, nil
	}
	var answers []model.SurveyAnswer
	if err := r.scoped(ctx, companyID).
		Select("survey_answers.*").
		Where("survey_answers.instance_id IN ?", instanceIDs).
		Order("survey_answers.instance_id ASC, survey_answers.id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

type instanceAnswerCount struct {
	InstanceID uint
	Total      int
}

func (r *surveyAnswerRepository) CountByInstances(ctx context.Context, companyID uint, instanceIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(instanceIDs))
	if len(instanceIDs) == 0 {
		return counts, nil
	}
	var rows []instanceAnswerCount
	if err := r.scoped(ctx, companyID).
		Select("survey_answers.instance_id AS instance_id, COUNT(*) AS total").
		Where("survey_answers.instance_id IN ?", instanceIDs).
		Group("survey_answers.instance_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.InstanceID] = row.Total
	}
	return counts, nil
}
