package handler

import (
	"net/http"
	"strings"

	"changeready_go/internal/model"
	"changeready_go/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportingHandler 管理层报表接口
type ReportingHandler struct {
	reportingService service.ReportingService
}

func NewReportingHandler(reportingService service.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService: reportingService}
}

func (h *ReportingHandler) GetData(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	data, err := h.reportingService.GetReportingData(c.Request.Context(), p)
	if err != nil {
		respondError(c, "ReportingHandler.GetData", err)
		return
	}
	respondOK(c, http.StatusOK, "Reporting data retrieved successfully", data)
}

func (h *ReportingHandler) GetSummary(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.GetSummary(c.Request.Context(), p)
	if err != nil {
		respondError(c, "ReportingHandler.GetSummary", err)
		return
	}
	respondOK(c, http.StatusOK, "Management summary retrieved successfully", summary)
}

func (h *ReportingHandler) GetDepartments(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	depts, err := h.reportingService.GetDepartments(c.Request.Context(), p)
	if err != nil {
		respondError(c, "ReportingHandler.GetDepartments", err)
		return
	}
	respondOK(c, http.StatusOK, "Department readiness retrieved successfully", depts)
}

func (h *ReportingHandler) GetTrends(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	trend, err := h.reportingService.GetTrends(c.Request.Context(), p)
	if err != nil {
		respondError(c, "ReportingHandler.GetTrends", err)
		return
	}
	respondOK(c, http.StatusOK, "Reporting trends retrieved successfully", trend)
}

func (h *ReportingHandler) GetTemplateResults(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	results, err := h.reportingService.GetTemplateResults(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, "ReportingHandler.GetTemplateResults", err)
		return
	}
	respondOK(c, http.StatusOK, "Template results retrieved successfully", results)
}

// GetTemplateDepartmentResults 可选 ?department= 过滤，部门值接受枚举名或展示名。
func (h *ReportingHandler) GetTemplateDepartmentResults(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var dept *model.Department
	if raw := strings.TrimSpace(c.Query("department")); raw != "" {
		d, found := model.ParseDepartment(raw)
		if !found {
			respondBadRequest(c, "Unknown department")
			return
		}
		dept = &d
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	results, err := h.reportingService.GetTemplateDepartmentResults(c.Request.Context(), p, id, dept)
	if err != nil {
		respondError(c, "ReportingHandler.GetTemplateDepartmentResults", err)
		return
	}
	respondOK(c, http.StatusOK, "Department results retrieved successfully", results)
}
