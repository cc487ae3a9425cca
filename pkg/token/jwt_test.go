package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 测试用的常量
const (
	testSecret    = "test-secret-key-for-jwt-testing"
	testUserID    = uint(1)
	testCompanyID = uint(42)
	testRole      = "COMPANY_ADMIN"
)

func newTestManager() *JWTManager {
	return NewJWTManager(testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestNewJWTManager(t *testing.T) {
	manager := NewJWTManager("my-secret", 10*time.Minute, 24*time.Hour)

	if manager == nil {
		t.Fatal("NewJWTManager 返回了 nil")
	}
	if string(manager.secretKey) != "my-secret" {
		t.Errorf("secretKey 期望 %q, 实际 %q", "my-secret", string(manager.secretKey))
	}
	if manager.accessTokenDuration != 10*time.Minute {
		t.Errorf("accessTokenDuration 期望 %v, 实际 %v", 10*time.Minute, manager.accessTokenDuration)
	}
}

func TestGenerateToken(t *testing.T) {
	manager := newTestManager()

	accessToken, refreshToken, err := manager.GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	if parts := strings.Split(accessToken, "."); len(parts) != 3 {
		t.Errorf("accessToken 格式不正确, 期望3段, 实际 %d 段", len(parts))
	}
	if accessToken == refreshToken {
		t.Error("accessToken 和 refreshToken 不应该相同")
	}
}

func TestVerifyToken_Success(t *testing.T) {
	manager := newTestManager()

	accessToken, _, err := manager.GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := manager.VerifyToken(accessToken)
	if err != nil {
		t.Fatalf("VerifyToken 失败: %v", err)
	}
	if claims.UserID != testUserID {
		t.Errorf("UserID 期望 %d, 实际 %d", testUserID, claims.UserID)
	}
	if claims.CompanyID != testCompanyID {
		t.Errorf("CompanyID 期望 %d, 实际 %d", testCompanyID, claims.CompanyID)
	}
	if claims.Role != testRole {
		t.Errorf("Role 期望 %q, 实际 %q", testRole, claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType 期望 %q, 实际 %q", TokenTypeAccess, claims.TokenType)
	}
	if claims.Issuer != "changeready" {
		t.Errorf("Issuer 期望 %q, 实际 %q", "changeready", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("jti 不应该为空")
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("剩余有效期不合理: %v", ttl)
	}
}

func TestVerifyToken_RefreshToken(t *testing.T) {
	manager := newTestManager()

	_, refreshToken, err := manager.GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	claims, err := manager.VerifyToken(refreshToken)
	if err != nil {
		t.Fatalf("VerifyToken refresh token 失败: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType 期望 %q, 实际 %q", TokenTypeRefresh, claims.TokenType)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	manager := NewJWTManager(testSecret, 1*time.Millisecond, 1*time.Millisecond)

	accessToken, _, err := manager.GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err = manager.VerifyToken(accessToken); err == nil {
		t.Error("过期的 token 应该验证失败, 但返回了 nil error")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	accessToken, _, err := newTestManager().GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	wrongManager := NewJWTManager("wrong-secret-key", 15*time.Minute, 7*24*time.Hour)
	if _, err = wrongManager.VerifyToken(accessToken); err == nil {
		t.Error("用错误密钥验证应该失败, 但返回了 nil error")
	}
}

func TestVerifyToken_Tampered(t *testing.T) {
	manager := newTestManager()

	accessToken, _, err := manager.GenerateToken(testUserID, testCompanyID, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	parts := strings.Split(accessToken, ".")
	tampered := parts[0] + "." + parts[1] + "x" + "." + parts[2]

	if _, err = manager.VerifyToken(tampered); err == nil {
		t.Error("篡改的 token 应该验证失败, 但返回了 nil error")
	}
}

func TestVerifyToken_InvalidFormat(t *testing.T) {
	manager := newTestManager()

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := manager.VerifyToken(token); err == nil {
			t.Errorf("无效 token %q 应该验证失败, 但返回了 nil error", token)
		}
	}
}

// WithValidMethods 只允许 HS256，none 算法应被拒绝
func TestVerifyToken_WrongSigningMethod(t *testing.T) {
	claims := &CustomClaims{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      testRole,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "changeready",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("创建 none 签名 token 失败: %v", err)
	}

	if _, err = newTestManager().VerifyToken(tokenString); err == nil {
		t.Error("none 签名的 token 应该验证失败, 但返回了 nil error")
	}
}

// 没有公司 ID 的令牌无法映射到租户
func TestVerifyToken_MissingCompany(t *testing.T) {
	manager := newTestManager()

	accessToken, _, err := manager.GenerateToken(testUserID, 0, testRole)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}
	if _, err = manager.VerifyToken(accessToken); !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("期望 ErrMissingIdentity, 实际 %v", err)
	}
}
