package handler

import (
	"errors"
	"net/http"
	"strconv"

	"changeready_go/internal/middleware"
	"changeready_go/internal/model"
	"changeready_go/internal/service"
	"changeready_go/pkg/log"

	"github.com/gin-gonic/gin"
)

// mapServiceError 按错误类别映射 HTTP 状态码、错误码和对外消息。
// 具体哨兵错误都包装了类别，这里只需判断类别。
func mapServiceError(err error) (httpStatus int, code, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "RESOURCE_NOT_FOUND", notFoundMessage(err)
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "Access to this resource is not allowed"
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE", invalidStateMessage(err)
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return "Survey template not found"
	case errors.Is(err, service.ErrInstanceNotFound):
		return "Survey instance not found"
	case errors.Is(err, service.ErrGroupNotFound):
		return "Stakeholder group not found"
	default:
		return "Resource not found"
	}
}

func invalidStateMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInstanceSubmitted):
		return "Survey instance has already been submitted"
	case errors.Is(err, service.ErrTemplateInactive):
		return "Survey template is not active"
	default:
		return "Invalid state"
	}
}

// respondError 写错误响应；500 记录错误日志，其他只记警告。
func respondError(c *gin.Context, op string, err error) {
	status, code, msg := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s failed: %v request_id=%s", op, err, c.GetString(middleware.ContextKeyRequestID))
	} else {
		log.Warnw(op+" rejected", "status", status, "error", err)
	}
	c.JSON(status, gin.H{
		"code":    status,
		"error":   code,
		"message": msg,
	})
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"data":    data,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"error":   "VALIDATION_ERROR",
		"message": message,
	})
}

// getPrincipalFromContext 读取 AuthMiddleware 注入的 Principal。
// 上下文异常时直接写错误响应并返回 false，调用方只需 `if !ok { return }`。
func getPrincipalFromContext(c *gin.Context) (*model.Principal, bool) {
	val, exists := c.Get(middleware.ContextKeyPrincipal)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"error":   "UNAUTHORIZED",
			"message": "Principal not found in context",
		})
		return nil, false
	}
	principal, ok := val.(*model.Principal)
	if !ok || principal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"error":   "INTERNAL_SERVER_ERROR",
			"message": "Internal server error",
		})
		return nil, false
	}
	return principal, true
}

// parseIDParam 解析路径中的正整数 ID，失败时写 400 并返回 false。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
