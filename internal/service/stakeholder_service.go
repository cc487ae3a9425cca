package service

import (
	"context"
	"fmt"
	"strings"

	"changeready_go/internal/model"
	"changeready_go/pkg/log"
)

// GroupInput 创建分组的参数。
type GroupInput struct {
	Name        string       `validate:"required,max=255"`
	Icon        string       `validate:"max=64"`
	Impact      model.Impact `validate:"required"`
	Description string
}

// GroupPatch 部分更新，nil 字段保持不变。
type GroupPatch struct {
	Name        *string       `validate:"omitempty,max=255"`
	Icon        *string       `validate:"omitempty,max=64"`
	Impact      *model.Impact
	Description *string
}

type PersonInput struct {
	Name  string `validate:"required,max=255"`
	Role  string `validate:"max=255"`
	Email string `validate:"omitempty,email,max=255"`
}

// StakeholderService 干系人分组的汇总视图与维护。
// 汇总时分组成员按"部门映射优先，邮箱关联兜底"解析。
type StakeholderService interface {
	ListGroups(ctx context.Context, p *model.Principal) ([]model.StakeholderGroupSummary, error)
	GetGroup(ctx context.Context, p *model.Principal, groupID uint) (*model.StakeholderGroupDetail, error)
	GetGroupPersons(ctx context.Context, p *model.Principal, groupID uint) ([]model.StakeholderPersonView, error)
	GetKpis(ctx context.Context, p *model.Principal) (*model.StakeholderKpis, error)

	CreateGroup(ctx context.Context, p *model.Principal, in GroupInput) (*model.StakeholderGroup, error)
	UpdateGroup(ctx context.Context, p *model.Principal, groupID uint, patch GroupPatch) (*model.StakeholderGroup, error)
	AddPerson(ctx context.Context, p *model.Principal, groupID uint, in PersonInput) (*model.StakeholderPerson, error)
	DeleteGroup(ctx context.Context, p *model.Principal, groupID uint) error
}

type stakeholderService struct {
	agg *Aggregator
}

func NewStakeholderService(agg *Aggregator) StakeholderService {
	return &stakeholderService{agg: agg}
}

func (s *stakeholderService) guard(p *model.Principal) error {
	if !s.agg.ready() {
		return ErrInternal
	}
	return requirePrincipal(p)
}

func (s *stakeholderService) load(ctx context.Context, p *model.Principal, groupID uint) (*submissionPool, *stakeholderSet, error) {
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	set, err := s.agg.loadStakeholders(ctx, p.CompanyID, groupID)
	if err != nil {
		return nil, nil, err
	}
	return pool, set, nil
}

func (s *stakeholderService) ListGroups(ctx context.Context, p *model.Principal) ([]model.StakeholderGroupSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, set, err := s.load(ctx, p, 0)
	if err != nil {
		return nil, err
	}

	resolver := departmentFirst(set.usersByEmail)
	out := make([]model.StakeholderGroupSummary, 0, len(set.groups))
	for i := range set.groups {
		r := s.agg.rollupGroup(pool, &set.groups[i], set.persons[set.groups[i].ID], resolver)
		out = append(out, r.summary())
	}
	return out, nil
}

func (s *stakeholderService) GetGroup(ctx context.Context, p *model.Principal, groupID uint) (*model.StakeholderGroupDetail, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, set, err := s.load(ctx, p, groupID)
	if err != nil {
		return nil, err
	}

	group := &set.groups[0]
	persons := set.persons[group.ID]
	r := s.agg.rollupGroup(pool, group, persons, departmentFirst(set.usersByEmail))
	return &model.StakeholderGroupDetail{
		StakeholderGroupSummary: r.summary(),
		Persons:                 personViews(pool, set.usersByEmail, persons),
		History:                 s.agg.history(pool, r.scope),
	}, nil
}

func (s *stakeholderService) GetGroupPersons(ctx context.Context, p *model.Principal, groupID uint) ([]model.StakeholderPersonView, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, set, err := s.load(ctx, p, groupID)
	if err != nil {
		return nil, err
	}
	return personViews(pool, set.usersByEmail, set.persons[set.groups[0].ID]), nil
}

// personViews 成员个人就绪度：只看邮箱关联到的用户本人的已提交答案；无数据时归为 neutral。
func personViews(pool *submissionPool, usersByEmail map[string]uint, persons []model.StakeholderPerson) []model.StakeholderPersonView {
	out := make([]model.StakeholderPersonView, 0, len(persons))
	for _, person := range persons {
		view := model.StakeholderPersonView{
			ID:       person.ID,
			Name:     person.Name,
			Role:     person.Role,
			Email:    person.Email,
			Category: model.CategoryNeutral,
		}
		if uid, ok := usersByEmail[emailKey(person.Email)]; ok && person.Email != "" {
			values := pool.values(func(inst *model.SurveyInstance) bool { return inst.UserID == uid })
			if len(values) > 0 {
				readiness := CalculateReadiness(values)
				view.Readiness = roundPercent(readiness)
				view.Category = ClassifyStakeholder(readiness)
			}
		}
		out = append(out, view)
	}
	return out
}

// GetKpis 每个分组按自身就绪度整体归类，人数取该分组的参与人数。
// 平均就绪度只统计有数据的分组。
func (s *stakeholderService) GetKpis(ctx context.Context, p *model.Principal) (*model.StakeholderKpis, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, set, err := s.load(ctx, p, 0)
	if err != nil {
		return nil, err
	}

	kpis := &model.StakeholderKpis{}
	resolver := departmentFirst(set.usersByEmail)
	var sum float64
	withData := 0
	for i := range set.groups {
		r := s.agg.rollupGroup(pool, &set.groups[i], set.persons[set.groups[i].ID], resolver)
		kpis.TotalStakeholders += r.participantCount
		switch ClassifyStakeholder(r.readiness) {
		case model.CategoryPromoter:
			kpis.Promoters += r.participantCount
		case model.CategoryNeutral:
			kpis.Neutrals += r.participantCount
		default:
			kpis.Critics += r.participantCount
		}
		if r.hasData {
			sum += r.readiness
			withData++
		}
	}
	if withData > 0 {
		kpis.AverageReadiness = roundPercent(sum / float64(withData))
	}
	return kpis, nil
}

func (s *stakeholderService) CreateGroup(ctx context.Context, p *model.Principal, in GroupInput) (*model.StakeholderGroup, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !in.Impact.Valid() {
		return nil, fmt.Errorf("%w: unknown impact %q", ErrInvalidInput, in.Impact)
	}
	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = "people"
	}

	group := &model.StakeholderGroup{
		Name:        in.Name,
		Icon:        icon,
		Impact:      in.Impact,
		Description: in.Description,
		CompanyID:   p.CompanyID,
	}
	if err := s.agg.stakeholderRepo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	log.Infow("stakeholder group created", "group_id", group.ID, "company_id", p.CompanyID, "by", p.UserID)
	return group, nil
}

func (s *stakeholderService) UpdateGroup(ctx context.Context, p *model.Principal, groupID uint, patch GroupPatch) (*model.StakeholderGroup, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if err := validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if patch.Impact != nil && !patch.Impact.Valid() {
		return nil, fmt.Errorf("%w: unknown impact %q", ErrInvalidInput, *patch.Impact)
	}

	group, err := s.agg.stakeholderRepo.FindGroupByIDAndCompany(ctx, groupID, p.CompanyID)
	if err != nil {
		return nil, notFoundAs(err, ErrGroupNotFound)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
		}
		group.Name = name
	}
	if patch.Icon != nil && strings.TrimSpace(*patch.Icon) != "" {
		group.Icon = strings.TrimSpace(*patch.Icon)
	}
	if patch.Impact != nil {
		group.Impact = *patch.Impact
	}
	if patch.Description != nil {
		group.Description = *patch.Description
	}

	if err := s.agg.stakeholderRepo.UpdateGroup(ctx, group); err != nil {
		return nil, notFoundAs(err, ErrGroupNotFound)
	}
	return group, nil
}

func (s *stakeholderService) AddPerson(ctx context.Context, p *model.Principal, groupID uint, in PersonInput) (*model.StakeholderPerson, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	person := &model.StakeholderPerson{
		GroupID: groupID,
		Name:    in.Name,
		Role:    in.Role,
		Email:   in.Email,
	}
	if err := s.agg.stakeholderRepo.AddPerson(ctx, p.CompanyID, person); err != nil {
		return nil, notFoundAs(err, ErrGroupNotFound)
	}
	return person, nil
}

func (s *stakeholderService) DeleteGroup(ctx context.Context, p *model.Principal, groupID uint) error {
	if err := s.guard(p); err != nil {
		return err
	}
	if err := s.agg.stakeholderRepo.DeleteGroup(ctx, groupID, p.CompanyID); err != nil {
		return notFoundAs(err, ErrGroupNotFound)
	}
	log.Infow("stakeholder group deleted", "group_id", groupID, "company_id", p.CompanyID, "by", p.UserID)
	return nil
}
