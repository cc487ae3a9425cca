package model

import (
	"time"

	"gorm.io/datatypes"
)

// ParticipantType 参与者类型
type ParticipantType string

const (
	ParticipantPMA      ParticipantType = "PMA"
	ParticipantAffected ParticipantType = "AFFECTED"
)

func (p ParticipantType) Valid() bool {
	return p == ParticipantPMA || p == ParticipantAffected
}

// InstanceStatus 问卷实例状态，SUBMITTED 为终态。
type InstanceStatus string

const (
	StatusDraft     InstanceStatus = "DRAFT"
	StatusSubmitted InstanceStatus = "SUBMITTED"
)

// SurveyTemplate 对应 survey_templates 表。
// CompanyID 为空表示全局模板，对所有租户可见。
// CategoriesJSON 原样保存分类层级，读取时容错解析，格式错误不会在写入时被拒绝。
type SurveyTemplate struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Version        string         `gorm:"type:varchar(32);not null;default:'1.0'" json:"version"`
	Active         bool           `gorm:"not null;default:true;index" json:"active"`
	CategoriesJSON datatypes.JSON `gorm:"column:categories_json;type:text;not null" json:"-"`
	CompanyID      *uint          `gorm:"index" json:"companyId"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SurveyTemplate) TableName() string {
	return "survey_templates"
}

// IsGlobal 报告模板是否为全局模板
func (t *SurveyTemplate) IsGlobal() bool {
	return t.CompanyID == nil
}

// VisibleTo 全局模板或归属于该公司的模板可见
func (t *SurveyTemplate) VisibleTo(companyID uint) bool {
	return t.CompanyID == nil || *t.CompanyID == companyID
}

// SurveyInstance 对应 survey_instances 表，一个用户对一个模板的一次作答。
// CompanyID 冗余自用户，租户校验不依赖用户查询。
type SurveyInstance struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateID      uint            `gorm:"not null;index" json:"templateId"`
	UserID          uint            `gorm:"not null;index" json:"userId"`
	CompanyID       uint            `gorm:"not null;index:idx_instance_company_status,priority:1" json:"companyId"`
	ParticipantType ParticipantType `gorm:"type:varchar(16);not null" json:"participantType"`
	Department      Department      `gorm:"type:varchar(32);not null;index" json:"department"`
	Status          InstanceStatus  `gorm:"type:varchar(16);not null;default:'DRAFT';index:idx_instance_company_status,priority:2" json:"status"`
	SubmittedAt     *time.Time      `json:"submittedAt"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SurveyInstance) TableName() string {
	return "survey_instances"
}

// SurveyAnswer 对应 survey_answers 表，(instance_id, question_id) 唯一，值域 1..5。
// 未作答即不存在记录，永远不会保存 0 或 NULL。
type SurveyAnswer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InstanceID uint      `gorm:"not null;uniqueIndex:uk_answer_instance_question,priority:1" json:"instanceId"`
	QuestionID string    `gorm:"type:varchar(50);not null;uniqueIndex:uk_answer_instance_question,priority:2" json:"questionId"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SurveyAnswer) TableName() string {
	return "survey_answers"
}

// AnswerChange 自动保存中的一项变更，Value 为 nil 表示删除该题答案。
type AnswerChange struct {
	QuestionID string `json:"questionId" validate:"required,max=50"`
	Value      *int   `json:"value" validate:"omitempty,min=1,max=5"`
}
