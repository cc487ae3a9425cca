package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType 常量，用于区分访问令牌和刷新令牌
// 受保护接口只接受 access token
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const issuer = "changeready"

// ErrMissingIdentity 令牌缺少用户或公司标识
var ErrMissingIdentity = errors.New("token carries no user or company id")

// JWTManager 负责签发和验证 HS256 令牌。
// 正式环境的令牌由身份服务签发，这里的签发能力用于本地联调与测试。
type JWTManager struct {
	secretKey            []byte
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

// CustomClaims 令牌中的身份声明，嵌入 jwt.RegisteredClaims。
// ID (jti) 用作撤销名单的 key。
type CustomClaims struct {
	UserID    uint   `json:"userId"`
	CompanyID uint   `json:"companyId"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey string, accessTokenDuration, refreshTokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:            []byte(secretKey),
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}
}

// GenerateToken 生成一对访问令牌和刷新令牌
func (manager *JWTManager) GenerateToken(userID, companyID uint, role string) (string, string, error) {
	now := time.Now()

	accessToken, err := manager.sign(userID, companyID, role, TokenTypeAccess, now, now.Add(manager.accessTokenDuration))
	if err != nil {
		return "", "", err
	}
	refreshToken, err := manager.sign(userID, companyID, role, TokenTypeRefresh, now, now.Add(manager.refreshTokenDuration))
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (manager *JWTManager) sign(userID, companyID uint, role, tokenType string, now, exp time.Time) (string, error) {
	claims := &CustomClaims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.secretKey)
}

// VerifyToken 验证签名与有效期，只接受 HS256。
func (manager *JWTManager) VerifyToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return manager.secretKey, nil
	},
		// 精确限制算法，拒绝 alg=none 或 RS256 之类的篡改
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, err
	}
	claims := token.Claims.(*CustomClaims)
	if claims.UserID == 0 || claims.CompanyID == 0 {
		return nil, ErrMissingIdentity
	}
	return claims, nil
}
