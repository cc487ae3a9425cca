package repository

import (
	"context"
	"strings"

	"changeready_go/internal/model"

	"gorm.io/gorm"
)

// UserRepository 只读的用户/公司查询，账号的增删改由外部身份服务负责。
type UserRepository interface {
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	// FindByEmailsInCompany 批量按邮箱查找本公司用户，邮箱比较不区分大小写。
	FindByEmailsInCompany(ctx context.Context, companyID uint, emails []string) ([]model.User, error)
	FindCompanyByID(ctx context.Context, companyID uint) (*model.Company, error)
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailsInCompany(ctx context.Context, companyID uint, emails []string) ([]model.User, error) {
	normalized := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		normalized = append(normalized, e)
	}
	if len(normalized) == 0 {
		return []model.User{}, nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND LOWER(email) IN ?", companyID, normalized).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindCompanyByID(ctx context.Context, companyID uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Where("id = ?", companyID).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
