package service

import (
	"context"

	"changeready_go/internal/model"
	"changeready_go/internal/repository"
	"changeready_go/pkg/log"
)

// IdentityService 把令牌中的身份声明换成可信的 Principal：
// 用户必须存在且启用，所属公司必须存在且启用，并与令牌中的公司一致。
type IdentityService interface {
	GetPrincipal(ctx context.Context, userID, companyID uint) (*model.Principal, error)
}

type identityService struct {
	userRepo repository.UserRepository
}

func NewIdentityService(userRepo repository.UserRepository) IdentityService {
	return &identityService{userRepo: userRepo}
}

func (s *identityService) GetPrincipal(ctx context.Context, userID, companyID uint) (*model.Principal, error) {
	if s.userRepo == nil {
		return nil, ErrInternal
	}
	if userID == 0 || companyID == 0 {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		log.Error("load user for principal failed", err)
		return nil, ErrInternal
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	// 令牌签发后用户被调到其他公司，旧令牌作废
	if user.CompanyID != companyID {
		return nil, ErrUnauthenticated
	}

	company, err := s.userRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountDisabled
		}
		log.Error("load company for principal failed", err)
		return nil, ErrInternal
	}
	if !company.Active {
		return nil, ErrAccountDisabled
	}

	return &model.Principal{UserID: user.ID, CompanyID: company.ID, Role: user.Role}, nil
}
