package handler

import (
	"context"

	"changeready_go/internal/model"
	"changeready_go/internal/service"
)

type fakeSurveyService struct {
	listTemplatesFn  func(p *model.Principal) ([]model.TemplateView, error)
	createInstanceFn func(p *model.Principal, templateID uint, participant model.ParticipantType, dept model.Department) (*model.InstanceView, error)
	listInstancesFn  func(p *model.Principal) ([]model.InstanceView, error)
	getInstanceFn    func(p *model.Principal, id uint) (*model.InstanceDetail, error)
	saveAnswersFn    func(p *model.Principal, id uint, changes []model.AnswerChange) (*model.InstanceView, error)
	submitFn         func(p *model.Principal, id uint) (*model.InstanceView, error)
	deleteFn         func(p *model.Principal, id uint) error
}

var _ service.SurveyService = (*fakeSurveyService)(nil)

func (f *fakeSurveyService) ListTemplates(ctx context.Context, p *model.Principal) ([]model.TemplateView, error) {
	if f.listTemplatesFn != nil {
		return f.listTemplatesFn(p)
	}
	return []model.TemplateView{}, nil
}

func (f *fakeSurveyService) CreateInstance(ctx context.Context, p *model.Principal, templateID uint, participant model.ParticipantType, dept model.Department) (*model.InstanceView, error) {
	if f.createInstanceFn != nil {
		return f.createInstanceFn(p, templateID, participant, dept)
	}
	return &model.InstanceView{}, nil
}

func (f *fakeSurveyService) ListInstances(ctx context.Context, p *model.Principal) ([]model.InstanceView, error) {
	if f.listInstancesFn != nil {
		return f.listInstancesFn(p)
	}
	return []model.InstanceView{}, nil
}

func (f *fakeSurveyService) GetInstance(ctx context.Context, p *model.Principal, id uint) (*model.InstanceDetail, error) {
	if f.getInstanceFn != nil {
		return f.getInstanceFn(p, id)
	}
	return &model.InstanceDetail{}, nil
}

func (f *fakeSurveyService) SaveAnswers(ctx context.Context, p *model.Principal, id uint, changes []model.AnswerChange) (*model.InstanceView, error) {
	if f.saveAnswersFn != nil {
		return f.saveAnswersFn(p, id, changes)
	}
	return &model.InstanceView{}, nil
}

func (f *fakeSurveyService) SubmitInstance(ctx context.Context, p *model.Principal, id uint) (*model.InstanceView, error) {
	if f.submitFn != nil {
		return f.submitFn(p, id)
	}
	return &model.InstanceView{}, nil
}

func (f *fakeSurveyService) DeleteInstance(ctx context.Context, p *model.Principal, id uint) error {
	if f.deleteFn != nil {
		return f.deleteFn(p, id)
	}
	return nil
}

type fakeDashboardService struct {
	getKpisFn   func(p *model.Principal) (*model.DashboardKpis, error)
	getTrendsFn func(p *model.Principal) (*model.TrendData, error)
}

func (f *fakeDashboardService) GetKpis(ctx context.Context, p *model.Principal) (*model.DashboardKpis, error) {
	if f.getKpisFn != nil {
		return f.getKpisFn(p)
	}
	return &model.DashboardKpis{}, nil
}

func (f *fakeDashboardService) GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error) {
	if f.getTrendsFn != nil {
		return f.getTrendsFn(p)
	}
	return &model.TrendData{Data: []model.TrendPoint{}}, nil
}

type fakeReportingService struct {
	getDataFn              func(p *model.Principal) (*model.ReportingData, error)
	getSummaryFn           func(p *model.Principal) (*model.ManagementSummary, error)
	getDepartmentsFn       func(p *model.Principal) ([]model.DepartmentReadiness, error)
	getTrendsFn            func(p *model.Principal) (*model.TrendData, error)
	getTemplateResultsFn   func(p *model.Principal, id uint) ([]model.TemplateResult, error)
	getDepartmentResultsFn func(p *model.Principal, id uint, dept *model.Department) ([]model.DepartmentResults, error)
}

func (f *fakeReportingService) GetReportingData(ctx context.Context, p *model.Principal) (*model.ReportingData, error) {
	if f.getDataFn != nil {
		return f.getDataFn(p)
	}
	return &model.ReportingData{}, nil
}

func (f *fakeReportingService) GetSummary(ctx context.Context, p *model.Principal) (*model.ManagementSummary, error) {
	if f.getSummaryFn != nil {
		return f.getSummaryFn(p)
	}
	return &model.ManagementSummary{}, nil
}

func (f *fakeReportingService) GetDepartments(ctx context.Context, p *model.Principal) ([]model.DepartmentReadiness, error) {
	if f.getDepartmentsFn != nil {
		return f.getDepartmentsFn(p)
	}
	return []model.DepartmentReadiness{}, nil
}

func (f *fakeReportingService) GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error) {
	if f.getTrendsFn != nil {
		return f.getTrendsFn(p)
	}
	return &model.TrendData{}, nil
}

func (f *fakeReportingService) GetTemplateResults(ctx context.Context, p *model.Principal, id uint) ([]model.TemplateResult, error) {
	if f.getTemplateResultsFn != nil {
		return f.getTemplateResultsFn(p, id)
	}
	return []model.TemplateResult{}, nil
}

func (f *fakeReportingService) GetTemplateDepartmentResults(ctx context.Context, p *model.Principal, id uint, dept *model.Department) ([]model.DepartmentResults, error) {
	if f.getDepartmentResultsFn != nil {
		return f.getDepartmentResultsFn(p, id, dept)
	}
	return []model.DepartmentResults{}, nil
}

type fakeStakeholderService struct {
	listGroupsFn  func(p *model.Principal) ([]model.StakeholderGroupSummary, error)
	getGroupFn    func(p *model.Principal, id uint) (*model.StakeholderGroupDetail, error)
	getPersonsFn  func(p *model.Principal, id uint) ([]model.StakeholderPersonView, error)
	getKpisFn     func(p *model.Principal) (*model.StakeholderKpis, error)
	createGroupFn func(p *model.Principal, in service.GroupInput) (*model.StakeholderGroup, error)
	updateGroupFn func(p *model.Principal, id uint, patch service.GroupPatch) (*model.StakeholderGroup, error)
	addPersonFn   func(p *model.Principal, id uint, in service.PersonInput) (*model.StakeholderPerson, error)
	deleteGroupFn func(p *model.Principal, id uint) error
}

func (f *fakeStakeholderService) ListGroups(ctx context.Context, p *model.Principal) ([]model.StakeholderGroupSummary, error) {
	if f.listGroupsFn != nil {
		return f.listGroupsFn(p)
	}
	return []model.StakeholderGroupSummary{}, nil
}

func (f *fakeStakeholderService) GetGroup(ctx context.Context, p *model.Principal, id uint) (*model.StakeholderGroupDetail, error) {
	if f.getGroupFn != nil {
		return f.getGroupFn(p, id)
	}
	return &model.StakeholderGroupDetail{}, nil
}

func (f *fakeStakeholderService) GetGroupPersons(ctx context.Context, p *model.Principal, id uint) ([]model.StakeholderPersonView, error) {
	if f.getPersonsFn != nil {
		return f.getPersonsFn(p, id)
	}
	return []model.StakeholderPersonView{}, nil
}

func (f *fakeStakeholderService) GetKpis(ctx context.Context, p *model.Principal) (*model.StakeholderKpis, error) {
	if f.getKpisFn != nil {
		return f.getKpisFn(p)
	}
	return &model.StakeholderKpis{}, nil
}

func (f *fakeStakeholderService) CreateGroup(ctx context.Context, p *model.Principal, in service.GroupInput) (*model.StakeholderGroup, error) {
	if f.createGroupFn != nil {
		return f.createGroupFn(p, in)
	}
	return &model.StakeholderGroup{}, nil
}

func (f *fakeStakeholderService) UpdateGroup(ctx context.Context, p *model.Principal, id uint, patch service.GroupPatch) (*model.StakeholderGroup, error) {
	if f.updateGroupFn != nil {
		return f.updateGroupFn(p, id, patch)
	}
	return &model.StakeholderGroup{}, nil
}

func (f *fakeStakeholderService) AddPerson(ctx context.Context, p *model.Principal, id uint, in service.PersonInput) (*model.StakeholderPerson, error) {
	if f.addPersonFn != nil {
		return f.addPersonFn(p, id, in)
	}
	return &model.StakeholderPerson{}, nil
}

func (f *fakeStakeholderService) DeleteGroup(ctx context.Context, p *model.Principal, id uint) error {
	if f.deleteGroupFn != nil {
		return f.deleteGroupFn(p, id)
	}
	return nil
}
