package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"changeready_go/internal/model"
	"changeready_go/internal/repository"
	"changeready_go/pkg/log"
)

// 趋势解读文案
const (
	insightNoData       = "Noch keine Daten verfügbar"
	insightInsufficient = "Nicht genügend Daten für eine Trend-Analyse"
	insightStrongUp     = "Positive Entwicklung - Readiness steigt kontinuierlich"
	insightMildUp       = "Leichte positive Entwicklung"
	insightStrongDown   = "Aufmerksamkeit erforderlich - Readiness sinkt"
	insightMildDown     = "Leichte Verschlechterung"
	insightStable       = "Stabile Entwicklung"
)

const dateLayout = "2006-01-02"

// AggregatorConfig 聚合的时间窗口。
type AggregatorConfig struct {
	// TrendWindow 趋势对比的基准：早于 now-TrendWindow 提交的实例
	TrendWindow time.Duration
	// HistoryWindow 分组详情中每日历史的回溯范围
	HistoryWindow time.Duration
}

// Aggregator 是仪表盘、报表、干系人三个服务共用的聚合引擎。
// 每次调用按维度批量取数（实例一次、答案一次、分组与成员各一次），再在内存中分组计算。
// 只有 SUBMITTED 实例参与聚合，草稿的并发修改不会影响结果。
type Aggregator struct {
	instanceRepo    repository.SurveyInstanceRepository
	answerRepo      repository.SurveyAnswerRepository
	templateRepo    repository.SurveyTemplateRepository
	stakeholderRepo repository.StakeholderRepository
	userRepo        repository.UserRepository
	measureRepo     repository.MeasureRepository
	cfg             AggregatorConfig
	now             func() time.Time
}

func NewAggregator(
	instanceRepo repository.SurveyInstanceRepository,
	answerRepo repository.SurveyAnswerRepository,
	templateRepo repository.SurveyTemplateRepository,
	stakeholderRepo repository.StakeholderRepository,
	userRepo repository.UserRepository,
	measureRepo repository.MeasureRepository,
	cfg AggregatorConfig,
) *Aggregator {
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = 30 * 24 * time.Hour
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 30 * 24 * time.Hour
	}
	return &Aggregator{
		instanceRepo:    instanceRepo,
		answerRepo:      answerRepo,
		templateRepo:    templateRepo,
		stakeholderRepo: stakeholderRepo,
		userRepo:        userRepo,
		measureRepo:     measureRepo,
		cfg:             cfg,
		now:             time.Now,
	}
}

func (a *Aggregator) ready() bool {
	return a != nil && a.instanceRepo != nil && a.answerRepo != nil && a.templateRepo != nil &&
		a.stakeholderRepo != nil && a.userRepo != nil && a.measureRepo != nil
}

// submissionPool 一个租户内已提交实例及其答案的快照。
type submissionPool struct {
	instances []model.SurveyInstance
	answers   map[uint][]model.SurveyAnswer
}

// values 汇总满足 filter 的实例的全部答案值（扁平池，不是平均值的平均）。
func (p *submissionPool) values(filter func(*model.SurveyInstance) bool) []int {
	var out []int
	for i := range p.instances {
		if filter != nil && !filter(&p.instances[i]) {
			continue
		}
		for _, ans := range p.answers[p.instances[i].ID] {
			out = append(out, ans.Value)
		}
	}
	return out
}

func (p *submissionPool) count(filter func(*model.SurveyInstance) bool) int {
	n := 0
	for i := range p.instances {
		if filter == nil || filter(&p.instances[i]) {
			n++
		}
	}
	return n
}

// dailyValues 按提交日期分桶，返回升序日期列表与每日答案池。
func (p *submissionPool) dailyValues(filter func(*model.SurveyInstance) bool) ([]string, map[string][]int) {
	buckets := make(map[string][]int)
	for i := range p.instances {
		inst := &p.instances[i]
		if inst.SubmittedAt == nil {
			continue
		}
		if filter != nil && !filter(inst) {
			continue
		}
		day := inst.SubmittedAt.Format(dateLayout)
		if _, ok := buckets[day]; !ok {
			buckets[day] = []int{}
		}
		for _, ans := range p.answers[inst.ID] {
			buckets[day] = append(buckets[day], ans.Value)
		}
	}
	days := make([]string, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Strings(days)
	return days, buckets
}

func submittedBefore(cutoff time.Time) func(*model.SurveyInstance) bool {
	return func(inst *model.SurveyInstance) bool {
		return inst.SubmittedAt != nil && inst.SubmittedAt.Before(cutoff)
	}
}

func submittedAfter(cutoff time.Time) func(*model.SurveyInstance) bool {
	return func(inst *model.SurveyInstance) bool {
		return inst.SubmittedAt != nil && inst.SubmittedAt.After(cutoff)
	}
}

func both(f, g func(*model.SurveyInstance) bool) func(*model.SurveyInstance) bool {
	return func(inst *model.SurveyInstance) bool { return f(inst) && g(inst) }
}

func answersByInstance(answers []model.SurveyAnswer) map[uint][]model.SurveyAnswer {
	out := make(map[uint][]model.SurveyAnswer)
	for _, ans := range answers {
		out[ans.InstanceID] = append(out[ans.InstanceID], ans)
	}
	return out
}

func instanceIDs(instances []model.SurveyInstance) []uint {
	ids := make([]uint, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}
	return ids
}

// loadPool 读取本公司全部已提交实例与答案（两次查询）。
func (a *Aggregator) loadPool(ctx context.Context, companyID uint) (*submissionPool, error) {
	instances, err := a.instanceRepo.FindSubmittedByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load submitted instances: %w", err)
	}
	answers, err := a.answerRepo.FindByInstances(ctx, companyID, instanceIDs(instances))
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return &submissionPool{instances: instances, answers: answersByInstance(answers)}, nil
}

// stakeholderSet 本公司的分组、成员及成员邮箱到用户 ID 的映射。
type stakeholderSet struct {
	groups       []model.StakeholderGroup
	persons      map[uint][]model.StakeholderPerson
	usersByEmail map[string]uint
}

func (s *stakeholderSet) personCount() int {
	n := 0
	for _, ps := range s.persons {
		n += len(ps)
	}
	return n
}

// loadStakeholders 批量读取分组、成员与关联用户；groupID 非 0 时只读取该分组。
func (a *Aggregator) loadStakeholders(ctx context.Context, companyID uint, groupID uint) (*stakeholderSet, error) {
	var groups []model.StakeholderGroup
	if groupID != 0 {
		g, err := a.stakeholderRepo.FindGroupByIDAndCompany(ctx, groupID, companyID)
		if err != nil {
			return nil, notFoundAs(err, ErrGroupNotFound)
		}
		groups = []model.StakeholderGroup{*g}
	} else {
		var err error
		if groups, err = a.stakeholderRepo.FindGroupsByCompany(ctx, companyID); err != nil {
			return nil, fmt.Errorf("load stakeholder groups: %w", err)
		}
	}

	groupIDs := make([]uint, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}
	persons, err := a.stakeholderRepo.FindPersonsByGroups(ctx, companyID, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("load stakeholder persons: %w", err)
	}

	set := &stakeholderSet{
		groups:       groups,
		persons:      make(map[uint][]model.StakeholderPerson, len(groups)),
		usersByEmail: make(map[string]uint),
	}
	emails := make([]string, 0, len(persons))
	for _, p := range persons {
		set.persons[p.GroupID] = append(set.persons[p.GroupID], p)
		if p.Email != "" {
			emails = append(emails, p.Email)
		}
	}

	users, err := a.userRepo.FindByEmailsInCompany(ctx, companyID, emails)
	if err != nil {
		return nil, fmt.Errorf("link persons to users: %w", err)
	}
	for _, u := range users {
		set.usersByEmail[emailKey(u.Email)] = u.ID
	}
	return set, nil
}

// groupRollup 单个分组的汇总结果，readiness/previous 保持完整精度。
type groupRollup struct {
	group            *model.StakeholderGroup
	scope            groupScope
	participantCount int
	readiness        float64
	hasData          bool
	previous         float64
}

func (a *Aggregator) rollupGroup(pool *submissionPool, group *model.StakeholderGroup, persons []model.StakeholderPerson, resolver membershipResolver) groupRollup {
	scope := resolver.resolve(group, persons)
	current := pool.values(scope.includes)
	previous := pool.values(both(scope.includes, submittedBefore(a.now().Add(-a.cfg.TrendWindow))))

	participants := scope.personCount
	if scope.byDepartment {
		participants = pool.count(scope.includes)
	}
	return groupRollup{
		group:            group,
		scope:            scope,
		participantCount: participants,
		readiness:        CalculateReadiness(current),
		hasData:          len(current) > 0,
		previous:         CalculateReadiness(previous),
	}
}

func (r groupRollup) summary() model.StakeholderGroupSummary {
	s := model.StakeholderGroupSummary{
		ID:               r.group.ID,
		Name:             r.group.Name,
		Icon:             r.group.Icon,
		Impact:           string(r.group.Impact),
		ImpactLabel:      r.group.Impact.DisplayName(),
		Description:      r.group.Description,
		ParticipantCount: r.participantCount,
		Readiness:        roundPercent(r.readiness),
		Trend:            CalculateTrend(r.readiness, r.previous),
		Category:         ClassifyStakeholder(r.readiness),
		Status:           CalculateStatus(r.readiness),
	}
	if r.scope.byDepartment {
		d := string(r.scope.department)
		s.Department = &d
	}
	return s
}

// trend 把已提交实例按提交日期分桶，每天计算一次汇总就绪度。
func (a *Aggregator) trend(pool *submissionPool) model.TrendData {
	days, buckets := pool.dailyValues(nil)
	points := make([]model.TrendPoint, 0, len(days))
	for _, day := range days {
		if len(buckets[day]) == 0 {
			continue
		}
		points = append(points, model.TrendPoint{
			Date:        day,
			ActualValue: roundPercent(CalculateReadiness(buckets[day])),
		})
	}
	return model.TrendData{Data: points, Insight: trendInsight(points)}
}

// trendInsight 比较首尾两个点的差值给出解读。
func trendInsight(points []model.TrendPoint) string {
	switch {
	case len(points) == 0:
		return insightNoData
	case len(points) < 2:
		return insightInsufficient
	}
	delta := points[len(points)-1].ActualValue - points[0].ActualValue
	switch {
	case delta > 5:
		return insightStrongUp
	case delta > 0:
		return insightMildUp
	case delta < -5:
		return insightStrongDown
	case delta < 0:
		return insightMildDown
	default:
		return insightStable
	}
}

// history 分组在 HistoryWindow 内的每日就绪度，没有答案的日期不输出。
func (a *Aggregator) history(pool *submissionPool, scope groupScope) []model.HistoryPoint {
	cutoff := a.now().Add(-a.cfg.HistoryWindow)
	days, buckets := pool.dailyValues(both(scope.includes, submittedAfter(cutoff)))
	points := make([]model.HistoryPoint, 0, len(days))
	for _, day := range days {
		if len(buckets[day]) == 0 {
			continue
		}
		points = append(points, model.HistoryPoint{Date: day, Readiness: roundPercent(CalculateReadiness(buckets[day]))})
	}
	return points
}

// templateScope 模板维度聚合所需的数据：解析后的层级、范围内实例及其答案。
type templateScope struct {
	template   *model.SurveyTemplate
	categories []model.TemplateCategory
	instances  []model.SurveyInstance
	answers    map[uint][]model.SurveyAnswer
}

// loadTemplateScope 校验模板对本公司可见（否则 ErrTemplateNotFound），再读取该模板的已提交实例。
// 层级解析失败时 categories 为空，下游自然得到空结果。
func (a *Aggregator) loadTemplateScope(ctx context.Context, companyID, templateID uint) (*templateScope, error) {
	tpl, err := a.templateRepo.FindVisibleByID(ctx, companyID, templateID)
	if err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}

	parsed := ParseCategories(tpl.CategoriesJSON)
	if parsed.Status == ParseEmpty {
		log.Warnw("template has no usable categories", "template_id", tpl.ID, "error", parsed.Err)
		return &templateScope{template: tpl, categories: parsed.Categories}, nil
	}

	instances, err := a.instanceRepo.FindSubmittedByTemplate(ctx, companyID, tpl.ID)
	if err != nil {
		return nil, fmt.Errorf("load template instances: %w", err)
	}
	answers, err := a.answerRepo.FindByInstances(ctx, companyID, instanceIDs(instances))
	if err != nil {
		return nil, fmt.Errorf("load template answers: %w", err)
	}
	return &templateScope{
		template:   tpl,
		categories: parsed.Categories,
		instances:  instances,
		answers:    answersByInstance(answers),
	}, nil
}

// buildTemplateResults 逐个子分类汇总成员题目的全部答案。
// 缺失的题目不计为 0；没有任何答案的子分类不输出。
func buildTemplateResults(categories []model.TemplateCategory, instances []model.SurveyInstance, answers map[uint][]model.SurveyAnswer) []model.TemplateResult {
	results := []model.TemplateResult{}
	if len(instances) == 0 {
		return results
	}

	byQuestion := make(map[string][]int)
	for _, inst := range instances {
		for _, ans := range answers[inst.ID] {
			byQuestion[ans.QuestionID] = append(byQuestion[ans.QuestionID], ans.Value)
		}
	}

	for _, c := range categories {
		for _, sub := range c.Subcategories {
			var pooled []int
			reverse := []string{}
			for _, q := range sub.Questions {
				if q.ID == "" {
					continue
				}
				if q.Reverse {
					reverse = append(reverse, q.ID)
				}
				pooled = append(pooled, byQuestion[q.ID]...)
			}
			if len(pooled) == 0 {
				continue
			}

			sum := 0
			for _, v := range pooled {
				sum += v
			}
			name := sub.Name
			if name == "" {
				name = c.Name
			}
			results = append(results, model.TemplateResult{
				Category:      c.Name,
				Subcategory:   name,
				Average:       roundAverage(float64(sum) / float64(len(pooled))),
				AnsweredCount: len(pooled),
				TotalCount:    len(sub.Questions) * len(instances),
				ReverseItems:  reverse,
			})
		}
	}
	return results
}

// departmentColor 报表中部门就绪度的颜色
func departmentColor(readiness float64) string {
	switch {
	case readiness >= 75:
		return "#56A080"
	case readiness >= 50:
		return "#DFB55E"
	default:
		return "#DC2626"
	}
}
