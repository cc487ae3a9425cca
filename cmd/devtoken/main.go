// devtoken 用服务配置中的密钥签发一对本地联调用的令牌。
//
// 用法：
//
//	devtoken -user 1 -company 10 -role COMPANY_ADMIN
//
// 正式环境的令牌由身份服务签发，本工具只用于开发与联调。
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"changeready_go/internal/config"
	"changeready_go/internal/model"
	"changeready_go/pkg/token"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "configs/config.yaml", "配置文件路径")
	userID := fs.Uint("user", 0, "用户 ID")
	companyID := fs.Uint("company", 0, "公司 ID")
	role := fs.String("role", string(model.RoleCompanyUser), "SYSTEM_ADMIN | COMPANY_ADMIN | COMPANY_USER")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == 0 || *companyID == 0 {
		return errors.New("-user and -company are required")
	}
	switch model.Role(*role) {
	case model.RoleSystemAdmin, model.RoleCompanyAdmin, model.RoleCompanyUser:
	default:
		return fmt.Errorf("unknown role %q", *role)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	manager := token.NewJWTManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpireHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshTokenExpireDays)*24*time.Hour,
	)
	access, refresh, err := manager.GenerateToken(*userID, *companyID, *role)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	fmt.Fprintf(out, "access_token=%s\nrefresh_token=%s\n", access, refresh)
	return nil
}
