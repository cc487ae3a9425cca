package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"changeready_go/internal/model"
	"changeready_go/internal/service"
	"changeready_go/pkg/log"
	"changeready_go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// ContextKeyPrincipal 认证通过后 Principal 在 gin 上下文中的 key
const ContextKeyPrincipal = "principal"

// TokenRevocation 令牌撤销名单
type TokenRevocation interface {
	IsRevoked(ctx context.Context, claims *token.CustomClaims) (bool, error)
}

// RedisRevocation 以 jti 为 key 的撤销名单，身份服务登出时写入，TTL 与令牌剩余有效期一致。
type RedisRevocation struct {
	client *redis.Client
}

const revocationKeyPrefix = "token_blacklist:"

func NewRedisRevocation(client *redis.Client) *RedisRevocation {
	return &RedisRevocation{client: client}
}

func (r *RedisRevocation) IsRevoked(ctx context.Context, claims *token.CustomClaims) (bool, error) {
	if r == nil || r.client == nil || claims.ID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revocationKeyPrefix+claims.ID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AuthMiddleware 解析 Bearer 令牌并换取 Principal。
// 工作流程：
//  1. 提取并验证令牌（HS256，未过期，类型必须是 access）
//  2. 查询撤销名单（revocation 为 nil 时跳过）
//  3. 通过 IdentityService 确认用户与公司仍然有效
//  4. 把 *model.Principal 写入上下文，后续 Handler 显式传给 Service
func AuthMiddleware(jwtManager *token.JWTManager, identity service.IdentityService, revocation TokenRevocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtManager == nil || identity == nil {
			abortJSON(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
			return
		}

		tokenString, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil || claims == nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired access token")
			return
		}
		if claims.TokenType != token.TokenTypeAccess {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token type")
			return
		}

		if revocation != nil {
			revoked, err := revocation.IsRevoked(c.Request.Context(), claims)
			if err != nil {
				log.Error("token revocation lookup failed", err)
				abortJSON(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				return
			}
			if revoked {
				abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired access token")
				return
			}
		}

		principal, err := identity.GetPrincipal(c.Request.Context(), claims.UserID, claims.CompanyID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthenticated):
				abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account is not active")
			default:
				abortJSON(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
			}
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// RequireAdmin 必须在 AuthMiddleware 之后执行，只放行 SYSTEM_ADMIN 和 COMPANY_ADMIN。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ContextKeyPrincipal)
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "Principal not found in context")
			return
		}
		principal, ok := val.(*model.Principal)
		if !ok || principal == nil {
			abortJSON(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
			return
		}
		if !principal.Role.IsAdmin() {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "Forbidden: administrator role required")
			return
		}
		c.Next()
	}
}

// extractBearerToken 期望格式：Bearer <token>，前缀大小写不敏感。
func extractBearerToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"error":   code,
		"message": message,
	})
}
