package handler

import (
	"net/http"

	"changeready_go/internal/model"
	"changeready_go/internal/service"

	"github.com/gin-gonic/gin"
)

// StakeholderHandler 干系人分组接口，维护类接口挂在管理员路由下。
type StakeholderHandler struct {
	stakeholderService service.StakeholderService
}

func NewStakeholderHandler(stakeholderService service.StakeholderService) *StakeholderHandler {
	return &StakeholderHandler{stakeholderService: stakeholderService}
}

type CreateGroupRequest struct {
	Name        string       `json:"name" binding:"required"`
	Icon        string       `json:"icon"`
	Impact      model.Impact `json:"impact" binding:"required"`
	Description string       `json:"description"`
}

// UpdateGroupRequest 字段缺省表示不修改
type UpdateGroupRequest struct {
	Name        *string       `json:"name"`
	Icon        *string       `json:"icon"`
	Impact      *model.Impact `json:"impact"`
	Description *string       `json:"description"`
}

type AddPersonRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

func (h *StakeholderHandler) ListGroups(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	groups, err := h.stakeholderService.ListGroups(c.Request.Context(), p)
	if err != nil {
		respondError(c, "StakeholderHandler.ListGroups", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder groups retrieved successfully", groups)
}

func (h *StakeholderHandler) GetGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	detail, err := h.stakeholderService.GetGroup(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, "StakeholderHandler.GetGroup", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder group retrieved successfully", detail)
}

func (h *StakeholderHandler) GetGroupPersons(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	persons, err := h.stakeholderService.GetGroupPersons(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, "StakeholderHandler.GetGroupPersons", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder persons retrieved successfully", persons)
}

func (h *StakeholderHandler) GetKpis(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	kpis, err := h.stakeholderService.GetKpis(c.Request.Context(), p)
	if err != nil {
		respondError(c, "StakeholderHandler.GetKpis", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder KPIs retrieved successfully", kpis)
}

func (h *StakeholderHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	group, err := h.stakeholderService.CreateGroup(c.Request.Context(), p, service.GroupInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Impact:      req.Impact,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, "StakeholderHandler.CreateGroup", err)
		return
	}
	respondOK(c, http.StatusCreated, "Stakeholder group created successfully", group)
}

func (h *StakeholderHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	group, err := h.stakeholderService.UpdateGroup(c.Request.Context(), p, id, service.GroupPatch{
		Name:        req.Name,
		Icon:        req.Icon,
		Impact:      req.Impact,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, "StakeholderHandler.UpdateGroup", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder group updated successfully", group)
}

func (h *StakeholderHandler) AddPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	person, err := h.stakeholderService.AddPerson(c.Request.Context(), p, id, service.PersonInput{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, "StakeholderHandler.AddPerson", err)
		return
	}
	respondOK(c, http.StatusCreated, "Stakeholder person added successfully", person)
}

func (h *StakeholderHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	if err := h.stakeholderService.DeleteGroup(c.Request.Context(), p, id); err != nil {
		respondError(c, "StakeholderHandler.DeleteGroup", err)
		return
	}
	respondOK(c, http.StatusOK, "Stakeholder group deleted successfully", nil)
}
