package service

import (
	"context"
	"fmt"

	"changeready_go/internal/model"
)

// DashboardService 公司级 KPI 与趋势。
type DashboardService interface {
	GetKpis(ctx context.Context, p *model.Principal) (*model.DashboardKpis, error)
	GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error)
}

type dashboardService struct {
	agg *Aggregator
}

func NewDashboardService(agg *Aggregator) DashboardService {
	return &dashboardService{agg: agg}
}

// GetKpis 汇总问卷数量、整体就绪度、干系人分布与进行中的措施。
// 整体就绪度取全部已提交答案的扁平池；干系人分布按分组自身就绪度乘以该组人数，
// 这里分组只按成员邮箱关联取数，没有答案的分组不计入分布。
func (s *dashboardService) GetKpis(ctx context.Context, p *model.Principal) (*model.DashboardKpis, error) {
	if !s.agg.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	counts, err := s.agg.instanceRepo.CountByStatus(ctx, p.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("count instances: %w", err)
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	set, err := s.agg.loadStakeholders(ctx, p.CompanyID, 0)
	if err != nil {
		return nil, err
	}
	activeMeasures, err := s.agg.measureRepo.CountActiveByCompany(ctx, p.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("count measures: %w", err)
	}

	kpis := &model.DashboardKpis{
		CompletedSurveys: counts[model.StatusSubmitted],
		OpenSurveys:      counts[model.StatusDraft],
		OverallReadiness: roundPercent(CalculateReadiness(pool.values(nil))),
		ActiveMeasures:   activeMeasures,
	}
	for _, n := range counts {
		kpis.TotalSurveys += n
	}

	resolver := emailOnly(set.usersByEmail)
	for i := range set.groups {
		persons := set.persons[set.groups[i].ID]
		kpis.TotalStakeholders += len(persons)

		r := s.agg.rollupGroup(pool, &set.groups[i], persons, resolver)
		// 只跳过没有答案的分组；全部答 1 分（就绪度 0）的分组照常计入 critic，不按就绪度是否大于 0 判断
		if !r.hasData {
			continue
		}
		switch ClassifyStakeholder(r.readiness) {
		case model.CategoryPromoter:
			kpis.Promoters += len(persons)
		case model.CategoryNeutral:
			kpis.Neutrals += len(persons)
		default:
			kpis.Critics += len(persons)
		}
	}
	return kpis, nil
}

func (s *dashboardService) GetTrends(ctx context.Context, p *model.Principal) (*model.TrendData, error) {
	if !s.agg.ready() {
		return nil, ErrInternal
	}
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	pool, err := s.agg.loadPool(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	trend := s.agg.trend(pool)
	return &trend, nil
}
