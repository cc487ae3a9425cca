package handler

import (
	"net/http"

	"changeready_go/internal/model"
	"changeready_go/internal/service"

	"github.com/gin-gonic/gin"
)

// SurveyHandler 问卷模板与实例接口。
type SurveyHandler struct {
	surveyService service.SurveyService
}

func NewSurveyHandler(surveyService service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// CreateInstanceRequest 创建问卷实例的请求体
type CreateInstanceRequest struct {
	TemplateID      uint                  `json:"templateId" binding:"required"`
	ParticipantType model.ParticipantType `json:"participantType" binding:"required"`
	Department      model.Department      `json:"department" binding:"required"`
}

// SaveAnswersRequest 自动保存的请求体，value 为 null 表示删除该题答案。
type SaveAnswersRequest struct {
	Answers []model.AnswerChange `json:"answers"`
}

func (h *SurveyHandler) ListTemplates(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	templates, err := h.surveyService.ListTemplates(c.Request.Context(), p)
	if err != nil {
		respondError(c, "SurveyHandler.ListTemplates", err)
		return
	}
	respondOK(c, http.StatusOK, "Survey templates retrieved successfully", templates)
}

func (h *SurveyHandler) CreateInstance(c *gin.Context) {
	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	view, err := h.surveyService.CreateInstance(c.Request.Context(), p, req.TemplateID, req.ParticipantType, req.Department)
	if err != nil {
		respondError(c, "SurveyHandler.CreateInstance", err)
		return
	}
	respondOK(c, http.StatusCreated, "Survey instance created successfully", view)
}

func (h *SurveyHandler) ListInstances(c *gin.Context) {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	views, err := h.surveyService.ListInstances(c.Request.Context(), p)
	if err != nil {
		respondError(c, "SurveyHandler.ListInstances", err)
		return
	}
	respondOK(c, http.StatusOK, "Survey instances retrieved successfully", views)
}

func (h *SurveyHandler) GetInstance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	detail, err := h.surveyService.GetInstance(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, "SurveyHandler.GetInstance", err)
		return
	}
	respondOK(c, http.StatusOK, "Survey instance retrieved successfully", detail)
}

// SaveAnswers 自动保存，整批原子生效。
func (h *SurveyHandler) SaveAnswers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SaveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}

	view, err := h.surveyService.SaveAnswers(c.Request.Context(), p, id, req.Answers)
	if err != nil {
		respondError(c, "SurveyHandler.SaveAnswers", err)
		return
	}
	respondOK(c, http.StatusOK, "Answers saved successfully", view)
}

func (h *SurveyHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	view, err := h.surveyService.SubmitInstance(c.Request.Context(), p, id)
	if err != nil {
		respondError(c, "SurveyHandler.Submit", err)
		return
	}
	respondOK(c, http.StatusOK, "Survey instance submitted successfully", view)
}

// DeleteInstance 管理员路由
func (h *SurveyHandler) DeleteInstance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return
	}
	if err := h.surveyService.DeleteInstance(c.Request.Context(), p, id); err != nil {
		respondError(c, "SurveyHandler.DeleteInstance", err)
		return
	}
	respondOK(c, http.StatusOK, "Survey instance deleted successfully", nil)
}
