package model

import "time"

// 干系人分类与就绪状态标签
const (
	CategoryPromoter = "promoter"
	CategoryNeutral  = "neutral"
	CategoryCritic   = "critic"

	ReadinessReady     = "ready"
	ReadinessAttention = "attention"
	ReadinessCritical  = "critical"
)

// DashboardKpis 公司级 KPI
type DashboardKpis struct {
	TotalSurveys      int64 `json:"totalSurveys"`
	CompletedSurveys  int64 `json:"completedSurveys"`
	OpenSurveys       int64 `json:"openSurveys"`
	OverallReadiness  int   `json:"overallReadiness"`
	TotalStakeholders int   `json:"totalStakeholders"`
	Promoters         int   `json:"promoters"`
	Neutrals          int   `json:"neutrals"`
	Critics           int   `json:"critics"`
	ActiveMeasures    int64 `json:"activeMeasures"`
}

// TrendPoint 趋势图上的一个日期点，TargetValue 目前总是 null。
type TrendPoint struct {
	Date        string `json:"date"`
	ActualValue int    `json:"actualValue"`
	TargetValue *int   `json:"targetValue"`
}

type TrendData struct {
	Data    []TrendPoint `json:"data"`
	Insight string       `json:"insight"`
}

type ManagementSummary struct {
	OverallReadiness    int    `json:"overallReadiness"`
	ReadinessTrend      int    `json:"readinessTrend"`
	StakeholderCount    int    `json:"stakeholderCount"`
	ActiveMeasuresCount int64  `json:"activeMeasuresCount"`
	Date                string `json:"date"`
}

type DepartmentReadiness struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Readiness int    `json:"readiness"`
	Color     string `json:"color"`
}

type ReportingData struct {
	Summary     ManagementSummary     `json:"summary"`
	Departments []DepartmentReadiness `json:"departments"`
	Trend       TrendData             `json:"trend"`
}

// TemplateResult 模板子分类的汇总结果。
// Average 保留两位小数；TotalCount 为理论最大值（题目数 × 实例数）。
// ReverseItems 只是元数据，数值未做反向处理。
type TemplateResult struct {
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	Average       float64  `json:"average"`
	AnsweredCount int      `json:"answeredCount"`
	TotalCount    int      `json:"totalCount"`
	ReverseItems  []string `json:"reverseItems"`
}

type DepartmentResults struct {
	Department       string           `json:"department"`
	DepartmentName   string           `json:"departmentName"`
	ParticipantCount int              `json:"participantCount"`
	Results          []TemplateResult `json:"results"`
}

// StakeholderGroupSummary 干系人分组的汇总视图。
// Department 非空表示该分组按部门口径计算。
type StakeholderGroupSummary struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Impact           string  `json:"impact"`
	ImpactLabel      string  `json:"impactLabel"`
	Description      string  `json:"description"`
	ParticipantCount int     `json:"participantCount"`
	Readiness        int     `json:"readiness"`
	Trend            int     `json:"trend"`
	Category         string  `json:"category"`
	Status           string  `json:"status"`
	Department       *string `json:"department,omitempty"`
}

type HistoryPoint struct {
	Date      string `json:"date"`
	Readiness int    `json:"readiness"`
}

type StakeholderPersonView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Readiness int    `json:"readiness"`
	Category  string `json:"category"`
}

type StakeholderGroupDetail struct {
	StakeholderGroupSummary
	Persons []StakeholderPersonView `json:"persons"`
	History []HistoryPoint          `json:"history"`
}

type StakeholderKpis struct {
	TotalStakeholders int `json:"totalStakeholders"`
	Promoters         int `json:"promoters"`
	Neutrals          int `json:"neutrals"`
	Critics           int `json:"critics"`
	AverageReadiness  int `json:"averageReadiness"`
}

// TemplateView 对外展示的模板，分类层级已解析。
type TemplateView struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Version     string             `json:"version"`
	Global      bool               `json:"global"`
	Categories  []TemplateCategory `json:"categories"`
}

type InstanceView struct {
	ID                uint            `json:"id"`
	TemplateID        uint            `json:"templateId"`
	TemplateName      string          `json:"templateName"`
	ParticipantType   ParticipantType `json:"participantType"`
	Department        Department      `json:"department"`
	DepartmentName    string          `json:"departmentName"`
	Status            InstanceStatus  `json:"status"`
	SubmittedAt       *time.Time      `json:"submittedAt"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	TotalQuestions    int             `json:"totalQuestions"`
	AnsweredQuestions int             `json:"answeredQuestions"`
}

type InstanceDetail struct {
	InstanceView
	Answers map[string]int `json:"answers"`
}
