package repository

import (
	"context"
	"fmt"

	"changeready_go/internal/model"

	"gorm.io/gorm"
)

// StakeholderRepository 干系人分组与成员的持久化操作。
// 分组按公司隔离，成员通过分组间接归属公司，因此成员查询都 JOIN 分组表限定公司。
type StakeholderRepository interface {
	FindGroupsByCompany(ctx context.Context, companyID uint) ([]model.StakeholderGroup, error)
	FindGroupByIDAndCompany(ctx context.Context, id, companyID uint) (*model.StakeholderGroup, error)
	FindPersonsByGroups(ctx context.Context, companyID uint, groupIDs []uint) ([]model.StakeholderPerson, error)
	CountPersonsByCompany(ctx context.Context, companyID uint) (int64, error)

	CreateGroup(ctx context.Context, group *model.StakeholderGroup) error
	// UpdateGroup 更新 name、icon、impact、description，分组不存在或不属于该公司时返回 gorm.ErrRecordNotFound。
	UpdateGroup(ctx context.Context, group *model.StakeholderGroup) error
	// AddPerson 在事务中确认分组归属后再插入成员。
	AddPerson(ctx context.Context, companyID uint, person *model.StakeholderPerson) error
	// DeleteGroup 在事务中先删除成员再删除分组。
	DeleteGroup(ctx context.Context, id, companyID uint) error
}

type stakeholderRepository struct {
	db *gorm.DB
}

func NewStakeholderRepository(db *gorm.DB) StakeholderRepository {
	return &stakeholderRepository{db: db}
}

func (r *stakeholderRepository) FindGroupsByCompany(ctx context.Context, companyID uint) ([]model.StakeholderGroup, error) {
	var groups []model.StakeholderGroup
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *stakeholderRepository) FindGroupByIDAndCompany(ctx context.Context, id, companyID uint) (*model.StakeholderGroup, error) {
	var group model.StakeholderGroup
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *stakeholderRepository) FindPersonsByGroups(ctx context.Context, companyID uint, groupIDs []uint) ([]model.StakeholderPerson, error) {
	if len(groupIDs) == 0 {
		return []model.StakeholderPerson{}, nil
	}
	var persons []model.StakeholderPerson
	if err := r.db.WithContext(ctx).
		Select("stakeholder_persons.*").
		Joins("JOIN stakeholder_groups ON stakeholder_groups.id = stakeholder_persons.group_id").
		Where("stakeholder_groups.company_id = ? AND stakeholder_persons.group_id IN ?", companyID, groupIDs).
		Order("stakeholder_persons.id ASC").
		Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *stakeholderRepository) CountPersonsByCompany(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.StakeholderPerson{}).
		Joins("JOIN stakeholder_groups ON stakeholder_groups.id = stakeholder_persons.group_id").
		Where("stakeholder_groups.company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *stakeholderRepository) CreateGroup(ctx context.Context, group *model.StakeholderGroup) error {
	if group == nil {
		return fmt.Errorf("stakeholder group is nil")
	}
	if group.CompanyID == 0 {
		return fmt.Errorf("company id is required")
	}
	return r.db.WithContext(ctx).Create(group).Error
}

// UpdateGroup 使用 Select 限定字段，避免零值覆盖 company_id 等列。
// 先在事务内确认归属，MySQL 在值未变化时 RowsAffected 为 0，不能据此判断不存在。
func (r *stakeholderRepository) UpdateGroup(ctx context.Context, group *model.StakeholderGroup) error {
	if group == nil {
		return fmt.Errorf("stakeholder group is nil")
	}
	if group.ID == 0 {
		return fmt.Errorf("group id is required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.StakeholderGroup
		if err := tx.Where("id = ? AND company_id = ?", group.ID, group.CompanyID).First(&current).Error; err != nil {
			return err
		}
		return tx.Model(&model.StakeholderGroup{}).
			Where("id = ? AND company_id = ?", group.ID, group.CompanyID).
			Select("name", "icon", "impact", "description").
			Updates(group).Error
	})
}

func (r *stakeholderRepository) AddPerson(ctx context.Context, companyID uint, person *model.StakeholderPerson) error {
	if person == nil {
		return fmt.Errorf("stakeholder person is nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.StakeholderGroup
		if err := tx.Where("id = ? AND company_id = ?", person.GroupID, companyID).First(&group).Error; err != nil {
			return err
		}
		return tx.Create(person).Error
	})
}

func (r *stakeholderRepository) DeleteGroup(ctx context.Context, id, companyID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.StakeholderGroup
		if err := tx.Where("id = ? AND company_id = ?", id, companyID).First(&group).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", group.ID).Delete(&model.StakeholderPerson{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND company_id = ?", group.ID, companyID).Delete(&model.StakeholderGroup{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
