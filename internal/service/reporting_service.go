package service

import (
	"context"
	"fmt"

	"changeready_go/internal/model"
)

// ReportingService 管理层报表：摘要、部门就绪度、趋势以及模板分类结果。
type ReportingService interface {
	GetReportingData(ctx context.Context, p *model.Principal) (*model.ReportingData, error)
	GetSummary(ctx context.Context, p *model.Principal) (*model.ManagementSummary, error)
	GetDepartments(ctx context.Context, p *model.Principal) ([]model.DepartmentReadiness, error)
	GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error)
	GetTemplateResults(ctx context.Context, p *model.Principal, templateID uint) ([]model.TemplateResult, error)
	// GetTemplateDepartmentResults department 为 nil 时返回所有有结果的部门。
	GetTemplateDepartmentResults(ctx context.Context, p *model.Principal, templateID uint, department *model.Department) ([]model.DepartmentResults, error)
}

type reportingService struct {
	agg *Aggregator
}

func NewReportingService(agg *Aggregator) ReportingService {
	return &reportingService{agg: agg}
}

func (s *reportingService) guard(p *model.Principal) error {
	if !s.agg.ready() {
		return ErrInternal
	}
	return requirePrincipal(p)
}

// GetReportingData 一次取数，同时返回摘要、部门与趋势。
func (s *reportingService) GetReportingData(ctx context.Context, p *model.Principal) (*model.ReportingData, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(ctx, p, pool)
	if err != nil {
		return nil, err
	}
	return &model.ReportingData{
		Summary:     *summary,
		Departments: departmentReadiness(pool),
		Trend:       s.agg.trend(pool),
	}, nil
}

func (s *reportingService) GetSummary(ctx context.Context, p *model.Principal) (*model.ManagementSummary, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return s.summary(ctx, p, pool)
}

// summary 趋势为当前扁平池与"趋势窗口之前提交"的扁平池之差。
func (s *reportingService) summary(ctx context.Context, p *model.Principal, pool *submissionPool) (*model.ManagementSummary, error) {
	persons, err := s.agg.stakeholderRepo.CountPersonsByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("count stakeholders: %w", err)
	}
	measures, err := s.agg.measureRepo.CountActiveByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("count measures: %w", err)
	}

	now := s.agg.now()
	current := CalculateReadiness(pool.values(nil))
	previous := CalculateReadiness(pool.values(submittedBefore(now.Add(-s.agg.cfg.TrendWindow))))
	return &model.ManagementSummary{
		OverallReadiness:    roundPercent(current),
		ReadinessTrend:      CalculateTrend(current, previous),
		StakeholderCount:    int(persons),
		ActiveMeasuresCount: measures,
		Date:                now.Format(dateLayout),
	}, nil
}

func (s *reportingService) GetDepartments(ctx context.Context, p *model.Principal) ([]model.DepartmentReadiness, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return departmentReadiness(pool), nil
}

// departmentReadiness 按部门枚举顺序输出，没有任何答案的部门跳过。
// 颜色按未取整的就绪度判定，与分组分类口径一致。
func departmentReadiness(pool *submissionPool) []model.DepartmentReadiness {
	out := []model.DepartmentReadiness{}
	for _, d := range model.Departments {
		dept := d
		values := pool.values(func(inst *model.SurveyInstance) bool { return inst.Department == dept })
		if len(values) == 0 {
			continue
		}
		raw := CalculateReadiness(values)
		out = append(out, model.DepartmentReadiness{
			ID:        string(dept),
			Name:      dept.DisplayName(),
			Readiness: roundPercent(raw),
			Color:     departmentColor(raw),
		})
	}
	return out
}

func (s *reportingService) GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	trend := s.agg.trend(pool)
	return &trend, nil
}

func (s *reportingService) GetTemplateResults(ctx context.Context, p *model.Principal, templateID uint) ([]model.TemplateResult, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	scope, err := s.agg.loadTemplateScope(ctx, p.CompanyID, templateID)
	if err != nil {
		return nil, err
	}
	return buildTemplateResults(scope.categories, scope.instances, scope.answers), nil
}

func (s *reportingService) GetTemplateDepartmentResults(ctx context.Context, p *model.Principal, templateID uint, department *model.Department) ([]model.DepartmentResults, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if department != nil && !department.Valid() {
		return nil, ErrInvalidInput
	}
	scope, err := s.agg.loadTemplateScope(ctx, p.CompanyID, templateID)
	if err != nil {
		return nil, err
	}

	byDept := make(map[model.Department][]model.SurveyInstance)
	for _, inst := range scope.instances {
		byDept[inst.Department] = append(byDept[inst.Department], inst)
	}

	out := []model.DepartmentResults{}
	for _, d := range model.Departments {
		if department != nil && *department != d {
			continue
		}
		instances := byDept[d]
		results := buildTemplateResults(scope.categories, instances, scope.answers)
		if len(results) == 0 {
			continue
		}
		out = append(out, model.DepartmentResults{
			Department:       string(d),
			DepartmentName:   d.DisplayName(),
			ParticipantCount: len(instances),
			Results:          results,
		})
	}
	return out, nil
}
