package handler

import (
	"net/http"

	"changeready_go/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘接口
type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetKpis(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	kpis, err := h.dashboardService.GetKpis(c.Request.Context(), p)
	if err != nil {
		respondError(c, "DashboardHandler.GetKpis", err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard KPIs retrieved successfully", kpis)
}

func (h *DashboardHandler) GetTrends(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	trend, err := h.dashboardService.GetTrends(c.Request.Context(), p)
	if err != nil {
		respondError(c, "DashboardHandler.GetTrends", err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard trends retrieved successfully", trend)
}
