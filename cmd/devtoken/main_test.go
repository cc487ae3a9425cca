package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"changeready_go/pkg/token"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "jwt:\n  secret: \"dev-secret\"\n  access_token_expire_hours: 1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRun_IssuesVerifiableToken(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-config", writeConfig(t), "-user", "3", "-company", "10", "-role", "COMPANY_ADMIN"}, &out)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	var access string
	for _, line := range strings.Split(out.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "access_token="); ok {
			access = v
		}
	}
	if access == "" {
		t.Fatalf("expect access token in output, got %q", out.String())
	}

	claims, err := token.NewJWTManager("dev-secret", time.Hour, time.Hour).VerifyToken(access)
	if err != nil {
		t.Fatalf("expect token signed with configured secret, got %v", err)
	}
	if claims.UserID != 3 || claims.CompanyID != 10 || claims.Role != "COMPANY_ADMIN" || claims.TokenType != token.TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRun_RejectsBadArgs(t *testing.T) {
	cfg := writeConfig(t)
	cases := [][]string{
		{"-config", cfg, "-company", "10"},
		{"-config", cfg, "-user", "1", "-company", "10", "-role", "GUEST"},
		{"-config", filepath.Join(t.TempDir(), "absent.yaml"), "-user", "1", "-company", "10"},
	}
	for _, args := range cases {
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Fatalf("%v: expect error", args)
		}
	}
}
