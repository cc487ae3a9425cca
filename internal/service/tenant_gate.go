package service

import (
	"errors"

	"changeready_go/internal/model"
	"changeready_go/internal/repository"

	"gorm.io/gorm"
)

// 租户隔离：所有入口先校验调用方身份，再以其公司 ID 作为查询参数。
// 跨租户资源一律按"不存在"处理，只有模板归属在可接受泄露存在性时返回 Forbidden。

func requirePrincipal(p *model.Principal) error {
	if p == nil || p.UserID == 0 || p.CompanyID == 0 {
		return ErrUnauthenticated
	}
	return nil
}

// checkTemplateUsable 创建实例前的模板检查：归属不符返回 ErrTemplateNotOwned，停用返回 ErrTemplateInactive。
func checkTemplateUsable(tpl *model.SurveyTemplate, p *model.Principal) error {
	if !tpl.VisibleTo(p.CompanyID) {
		return ErrTemplateNotOwned
	}
	if !tpl.Active {
		return ErrTemplateInactive
	}
	return nil
}

// checkInstanceAuthor 作答类操作要求公司和作者都一致。
func checkInstanceAuthor(inst *model.SurveyInstance, p *model.Principal) error {
	if inst.CompanyID != p.CompanyID {
		return ErrInstanceNotFound
	}
	if inst.UserID != p.UserID {
		return ErrInstanceNotOwned
	}
	return nil
}

// draftAuthorGuard 在事务行锁之后执行：作者一致且实例仍为 DRAFT。
func draftAuthorGuard(p *model.Principal) repository.InstanceGuard {
	return func(inst *model.SurveyInstance) error {
		if err := checkInstanceAuthor(inst, p); err != nil {
			return err
		}
		if inst.Status != model.StatusDraft {
			return ErrInstanceSubmitted
		}
		return nil
	}
}

// notFoundAs 把 gorm.ErrRecordNotFound 转换为指定的哨兵错误，其余错误原样返回。
func notFoundAs(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
