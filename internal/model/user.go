package model

import "time"

// Role 系统角色
type Role string

const (
	RoleSystemAdmin  Role = "SYSTEM_ADMIN"
	RoleCompanyAdmin Role = "COMPANY_ADMIN"
	RoleCompanyUser  Role = "COMPANY_USER"
)

// IsAdmin 报告该角色是否拥有租户内的管理权限
func (r Role) IsAdmin() bool {
	return r == RoleSystemAdmin || r == RoleCompanyAdmin
}

// User 对应数据库中 users 表。
// 注册、登录与密码哈希由外部身份服务负责，这里只读取身份与租户归属。
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(32);not null;default:'COMPANY_USER'" json:"role"`
	CompanyID    uint      `gorm:"not null;index" json:"companyId"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定 GORM 使用的表名
func (User) TableName() string {
	return "users"
}

// Company 租户边界，其他业务实体都归属于唯一的公司。
// 停用公司只会拒绝登录，不会删除数据。
type Company struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Company) TableName() string {
	return "companies"
}

// Principal 是一次请求的调用者身份，由认证中间件解析后显式传入 Service。
type Principal struct {
	UserID    uint
	CompanyID uint
	Role      Role
}
