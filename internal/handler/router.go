package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers 汇总各业务 Handler，便于一次性注册路由。
type Handlers struct {
	Survey      *SurveyHandler
	Dashboard   *DashboardHandler
	Reporting   *ReportingHandler
	Stakeholder *StakeholderHandler
}

// Register 在已经挂载认证中间件的分组上注册全部业务路由，admin 用于管理类接口。
func Register(api *gin.RouterGroup, h Handlers, admin gin.HandlerFunc) {
	surveys := api.Group("/surveys")
	{
		surveys.GET("/templates", h.Survey.ListTemplates)
		surveys.POST("/instances", h.Survey.CreateInstance)
		surveys.GET("/instances", h.Survey.ListInstances)
		surveys.GET("/instances/:id", h.Survey.GetInstance)
		surveys.PUT("/instances/:id/answers", h.Survey.SaveAnswers)
		surveys.POST("/instances/:id/submit", h.Survey.Submit)
		surveys.DELETE("/instances/:id", admin, h.Survey.DeleteInstance)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/kpis", h.Dashboard.GetKpis)
		dashboard.GET("/trends", h.Dashboard.GetTrends)
	}

	reporting := api.Group("/reporting")
	{
		reporting.GET("/data", h.Reporting.GetData)
		reporting.GET("/summary", h.Reporting.GetSummary)
		reporting.GET("/departments", h.Reporting.GetDepartments)
		reporting.GET("/trends", h.Reporting.GetTrends)
		reporting.GET("/templates/:id/results", h.Reporting.GetTemplateResults)
		reporting.GET("/templates/:id/results/departments", h.Reporting.GetTemplateDepartmentResults)
	}

	stakeholder := api.Group("/stakeholder")
	{
		stakeholder.GET("/groups", h.Stakeholder.ListGroups)
		stakeholder.GET("/groups/:id", h.Stakeholder.GetGroup)
		stakeholder.GET("/groups/:id/persons", h.Stakeholder.GetGroupPersons)
		stakeholder.GET("/kpis", h.Stakeholder.GetKpis)

		stakeholder.POST("/groups", admin, h.Stakeholder.CreateGroup)
		stakeholder.PUT("/groups/:id", admin, h.Stakeholder.UpdateGroup)
		stakeholder.POST("/groups/:id/persons", admin, h.Stakeholder.AddPerson)
		stakeholder.DELETE("/groups/:id", admin, h.Stakeholder.DeleteGroup)
	}
}
