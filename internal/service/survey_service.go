package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"changeready_go/internal/model"
	"changeready_go/internal/repository"
	"changeready_go/pkg/log"
)

// SurveyService 封装问卷实例的状态机：DRAFT → SUBMITTED（终态）。
// 关键规则：
// 1. 作答与提交只允许实例作者本人操作，且公司必须一致。
// 2. 自动保存整批原子生效，value 为 null 表示删除该题答案。
// 3. 提交是一次性的条件更新，重复提交返回 ErrInstanceSubmitted。
type SurveyService interface {
	ListTemplates(ctx context.Context, p *model.Principal) ([]model.TemplateView, error)
	CreateInstance(ctx context.Context, p *model.Principal, templateID uint, participant model.ParticipantType, department model.Department) (*model.InstanceView, error)
	ListInstances(ctx context.Context, p *model.Principal) ([]model.InstanceView, error)
	GetInstance(ctx context.Context, p *model.Principal, instanceID uint) (*model.InstanceDetail, error)
	SaveAnswers(ctx context.Context, p *model.Principal, instanceID uint, changes []model.AnswerChange) (*model.InstanceView, error)
	SubmitInstance(ctx context.Context, p *model.Principal, instanceID uint) (*model.InstanceView, error)
	// DeleteInstance 管理员清理：只校验租户，不校验作者。
	DeleteInstance(ctx context.Context, p *model.Principal, instanceID uint) error
}

type surveyService struct {
	templateRepo repository.SurveyTemplateRepository
	instanceRepo repository.SurveyInstanceRepository
	answerRepo   repository.SurveyAnswerRepository
	now          func() time.Time
}

func NewSurveyService(
	templateRepo repository.SurveyTemplateRepository,
	instanceRepo repository.SurveyInstanceRepository,
	answerRepo repository.SurveyAnswerRepository,
) SurveyService {
	return &surveyService{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		answerRepo:   answerRepo,
		now:          time.Now,
	}
}

func (s *surveyService) ready() bool {
	return s.templateRepo != nil && s.instanceRepo != nil && s.answerRepo != nil
}

// ListTemplates 返回启用中的全局模板与本公司模板，分类层级已解析。
func (s *surveyService) ListTemplates(ctx context.Context, p *model.Principal) ([]model.TemplateView, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	tpls, err := s.templateRepo.FindActiveVisible(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	views := make([]model.TemplateView, 0, len(tpls))
	for i := range tpls {
		parsed := ParseCategories(tpls[i].CategoriesJSON)
		if parsed.Err != nil {
			log.Warnw("template categories could not be parsed", "template_id", tpls[i].ID, "error", parsed.Err)
		}
		views = append(views, model.TemplateView{
			ID:          tpls[i].ID,
			Name:        tpls[i].Name,
			Description: tpls[i].Description,
			Version:     tpls[i].Version,
			Global:      tpls[i].IsGlobal(),
			Categories:  parsed.Categories,
		})
	}
	return views, nil
}

// CreateInstance 创建 DRAFT 实例。
// 检查顺序：模板不存在 → 不属于本公司 → 已停用。
func (s *surveyService) CreateInstance(ctx context.Context, p *model.Principal, templateID uint, participant model.ParticipantType, department model.Department) (*model.InstanceView, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if templateID == 0 || !participant.Valid() || !department.Valid() {
		return nil, ErrInvalidInput
	}

	tpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}
	if err := checkTemplateUsable(tpl, p); err != nil {
		return nil, err
	}

	inst := &model.SurveyInstance{
		TemplateID:      tpl.ID,
		UserID:          p.UserID,
		CompanyID:       p.CompanyID,
		ParticipantType: participant,
		Department:      department,
		Status:          model.StatusDraft,
	}
	if err := s.instanceRepo.Create(ctx, inst); err != nil {
		return nil, err
	}

	log.Infow("survey instance created", "instance_id", inst.ID, "template_id", tpl.ID, "user_id", p.UserID, "company_id", p.CompanyID)
	view := buildInstanceView(inst, tpl, 0)
	return &view, nil
}

// ListInstances 返回调用者本人的实例，最新的在前。
func (s *surveyService) ListInstances(ctx context.Context, p *model.Principal) ([]model.InstanceView, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	instances, err := s.instanceRepo.FindByUserAndCompany(ctx, p.UserID, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, p, instances)
}

func (s *surveyService) GetInstance(ctx context.Context, p *model.Principal, instanceID uint) (*model.InstanceDetail, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	inst, err := s.instanceRepo.FindByIDAndCompany(ctx, instanceID, p.CompanyID)
	if err != nil {
		return nil, notFoundAs(err, ErrInstanceNotFound)
	}
	if err := checkInstanceAuthor(inst, p); err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.FindByInstance(ctx, p.CompanyID, inst.ID)
	if err != nil {
		return nil, err
	}
	values := make(map[string]int, len(answers))
	for _, a := range answers {
		values[a.QuestionID] = a.Value
	}

	tpl, err := s.templateRepo.FindVisibleByID(ctx, p.CompanyID, inst.TemplateID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		tpl = nil
	}
	detail := &model.InstanceDetail{
		InstanceView: buildInstanceView(inst, tpl, len(values)),
		Answers:      values,
	}
	return detail, nil
}

// SaveAnswers 自动保存。先整批校验，再在一个事务中锁行、检查状态并写入。
// 同一实例上的并发保存按行锁串行化，每道题以最后一次写入为准。
func (s *surveyService) SaveAnswers(ctx context.Context, p *model.Principal, instanceID uint, changes []model.AnswerChange) (*model.InstanceView, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateAnswerChanges(changes); err != nil {
		return nil, err
	}

	if err := s.instanceRepo.SaveAnswers(ctx, instanceID, p.CompanyID, draftAuthorGuard(p), changes); err != nil {
		return nil, notFoundAs(err, ErrInstanceNotFound)
	}

	inst, err := s.instanceRepo.FindByIDAndCompany(ctx, instanceID, p.CompanyID)
	if err != nil {
		return nil, notFoundAs(err, ErrInstanceNotFound)
	}
	views, err := s.buildViews(ctx, p, []model.SurveyInstance{*inst})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *surveyService) SubmitInstance(ctx context.Context, p *model.Principal, instanceID uint) (*model.InstanceView, error) {
	if !s.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	inst, err := s.instanceRepo.Submit(ctx, instanceID, p.CompanyID, draftAuthorGuard(p), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrInstanceNotDraft) {
			return nil, ErrInstanceSubmitted
		}
		return nil, notFoundAs(err, ErrInstanceNotFound)
	}

	log.Infow("survey instance submitted", "instance_id", inst.ID, "user_id", p.UserID, "company_id", p.CompanyID)
	views, err := s.buildViews(ctx, p, []model.SurveyInstance{*inst})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *surveyService) DeleteInstance(ctx context.Context, p *model.Principal, instanceID uint) error {
	if !s.ready() {
		return ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if err := s.instanceRepo.DeleteWithAnswers(ctx, instanceID, p.CompanyID); err != nil {
		return notFoundAs(err, ErrInstanceNotFound)
	}
	log.Infow("survey instance deleted", "instance_id", instanceID, "company_id", p.CompanyID, "by", p.UserID)
	return nil
}

// buildViews 批量补全模板名称、题目总数与已答题数，避免逐条查询。
func (s *surveyService) buildViews(ctx context.Context, p *model.Principal, instances []model.SurveyInstance) ([]model.InstanceView, error) {
	views := make([]model.InstanceView, 0, len(instances))
	if len(instances) == 0 {
		return views, nil
	}

	instanceIDs := make([]uint, 0, len(instances))
	templateIDs := make([]uint, 0, len(instances))
	seenTpl := make(map[uint]struct{})
	for _, inst := range instances {
		instanceIDs = append(instanceIDs, inst.ID)
		if _, ok := seenTpl[inst.TemplateID]; !ok {
			seenTpl[inst.TemplateID] = struct{}{}
			templateIDs = append(templateIDs, inst.TemplateID)
		}
	}

	tpls, err := s.templateRepo.FindVisibleByIDs(ctx, p.CompanyID, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	tplByID := make(map[uint]*model.SurveyTemplate, len(tpls))
	for i := range tpls {
		tplByID[tpls[i].ID] = &tpls[i]
	}

	counts, err := s.answerRepo.CountByInstances(ctx, p.CompanyID, instanceIDs)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	for i := range instances {
		views = append(views, buildInstanceView(&instances[i], tplByID[instances[i].TemplateID], counts[instances[i].ID]))
	}
	return views, nil
}

// buildInstanceView tpl 可以为 nil（模板已被移除或不可见），此时题目总数为 0。
func buildInstanceView(inst *model.SurveyInstance, tpl *model.SurveyTemplate, answered int) model.InstanceView {
	view := model.InstanceView{
		ID:                inst.ID,
		TemplateID:        inst.TemplateID,
		ParticipantType:   inst.ParticipantType,
		Department:        inst.Department,
		DepartmentName:    inst.Department.DisplayName(),
		Status:            inst.Status,
		SubmittedAt:       inst.SubmittedAt,
		CreatedAt:         inst.CreatedAt,
		UpdatedAt:         inst.UpdatedAt,
		AnsweredQuestions: answered,
	}
	if tpl != nil {
		view.TemplateName = tpl.Name
		view.TotalQuestions = countQuestions(ParseCategories(tpl.CategoriesJSON).Categories, inst.ParticipantType)
	}
	return view
}
