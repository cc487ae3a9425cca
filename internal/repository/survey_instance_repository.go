package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"changeready_go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInstanceNotDraft 表示条件更新时实例已不是 DRAFT（并发提交被抢先）。
	ErrInstanceNotDraft = errors.New("survey instance is not in draft state")
)

// InstanceGuard 在事务内、行锁之后对实例做业务校验，返回非 nil 则回滚。
type InstanceGuard func(inst *model.SurveyInstance) error

// SurveyInstanceRepository 问卷实例及其答案的持久化操作。
// 所有读取都以公司 ID 为参数，不存在跨租户的查询路径。
type SurveyInstanceRepository interface {
	Create(ctx context.Context, inst *model.SurveyInstance) error
	FindByIDAndCompany(ctx context.Context, id, companyID uint) (*model.SurveyInstance, error)
	FindByUserAndCompany(ctx context.Context, userID, companyID uint) ([]model.SurveyInstance, error)
	FindSubmittedByCompany(ctx context.Context, companyID uint) ([]model.SurveyInstance, error)
	FindSubmittedByTemplate(ctx context.Context, companyID, templateID uint) ([]model.SurveyInstance, error)
	CountByStatus(ctx context.Context, companyID uint) (map[model.InstanceStatus]int64, error)

	// SaveAnswers 在一个事务里锁定实例行、执行 guard，然后逐项 upsert 或删除答案。
	// 同一批次中同一题出现多次时，以最后一项为准。
	SaveAnswers(ctx context.Context, id, companyID uint, guard InstanceGuard, changes []model.AnswerChange) error

	// Submit 把实例从 DRAFT 原子地切换为 SUBMITTED，并写入提交时间。
	// 条件更新未命中时返回 ErrInstanceNotDraft。
	Submit(ctx context.Context, id, companyID uint, guard InstanceGuard, at time.Time) (*model.SurveyInstance, error)

	// DeleteWithAnswers 先删除答案再删除实例，保证答案不会脱离实例存在。
	DeleteWithAnswers(ctx context.Context, id, companyID uint) error
}

type surveyInstanceRepository struct {
	db *gorm.DB
}

func NewSurveyInstanceRepository(db *gorm.DB) SurveyInstanceRepository {
	return &surveyInstanceRepository{db: db}
}

func (r *surveyInstanceRepository) Create(ctx context.Context, inst *model.SurveyInstance) error {
	if inst == nil {
		return fmt.Errorf("survey instance is nil")
	}
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *surveyInstanceRepository) FindByIDAndCompany(ctx context.Context, id, companyID uint) (*model.SurveyInstance, error) {
	var inst model.SurveyInstance
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *surveyInstanceRepository) FindByUserAndCompany(ctx context.Context, userID, companyID uint) ([]model.SurveyInstance, error) {
	var list []model.SurveyInstance
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *surveyInstanceRepository) FindSubmittedByCompany(ctx context.Context, companyID uint) ([]model.SurveyInstance, error) {
	var list []model.SurveyInstance
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, model.StatusSubmitted).
		Order("submitted_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *surveyInstanceRepository) FindSubmittedByTemplate(ctx context.Context, companyID, templateID uint) ([]model.SurveyInstance, error) {
	var list []model.SurveyInstance
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND template_id = ? AND status = ?", companyID, templateID, model.StatusSubmitted).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type statusCount struct {
	Status model.InstanceStatus
	Total  int64
}

func (r *surveyInstanceRepository) CountByStatus(ctx context.Context, companyID uint) (map[model.InstanceStatus]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&model.SurveyInstance{}).
		Select("status, COUNT(*) AS total").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.InstanceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// lockInstance 在事务内以 SELECT ... FOR UPDATE 读取实例，串行化同一实例上的写操作。
func lockInstance(tx *gorm.DB, id, companyID uint) (*model.SurveyInstance, error) {
	var inst model.SurveyInstance
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *surveyInstanceRepository) SaveAnswers(ctx context.Context, id, companyID uint, guard InstanceGuard, changes []model.AnswerChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := lockInstance(tx, id, companyID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(inst); err != nil {
				return err
			}
		}

		for _, change := range changes {
			if change.Value == nil {
				// 未作答：删除已有记录，不存在时为空操作
				if err := tx.Where("instance_id = ? AND question_id = ?", inst.ID, change.QuestionID).
					Delete(&model.SurveyAnswer{}).Error; err != nil {
					return err
				}
				continue
			}

			answer := model.SurveyAnswer{
				InstanceID: inst.ID,
				QuestionID: change.QuestionID,
				Value:      *change.Value,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "instance_id"}, {Name: "question_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&answer).Error; err != nil {
				return err
			}
		}

		// 触碰 updated_at，便于列表按最近编辑排序
		return tx.Model(&model.SurveyInstance{}).
			Where("id = ?", inst.ID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *surveyInstanceRepository) Submit(ctx context.Context, id, companyID uint, guard InstanceGuard, at time.Time) (*model.SurveyInstance, error) {
	var submitted *model.SurveyInstance
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := lockInstance(tx, id, companyID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(inst); err != nil {
				return err
			}
		}

		res := tx.Model(&model.SurveyInstance{}).
			Where("id = ? AND status = ?", inst.ID, model.StatusDraft).
			Updates(map[string]interface{}{
				"status":       model.StatusSubmitted,
				"submitted_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInstanceNotDraft
		}

		inst.Status = model.StatusSubmitted
		inst.SubmittedAt = &at
		submitted = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

func (r *surveyInstanceRepository) DeleteWithAnswers(ctx context.Context, id, companyID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inst model.SurveyInstance
		if err := tx.Where("id = ? AND company_id = ?", id, companyID).First(&inst).Error; err != nil {
			return err
		}

		if err := tx.Where("instance_id = ?", inst.ID).Delete(&model.SurveyAnswer{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND company_id = ?", inst.ID, companyID).Delete(&model.SurveyInstance{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
