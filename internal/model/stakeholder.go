package model

import "time"

// Impact 干系人分组的影响等级，仅作展示。
type Impact string

const (
	ImpactNiedrig     Impact = "NIEDRIG"
	ImpactMittel      Impact = "MITTEL"
	ImpactHoch        Impact = "HOCH"
	ImpactSehrHoch    Impact = "SEHR_HOCH"
	ImpactStrategisch Impact = "STRATEGISCH"
)

var impactDisplayNames = map[Impact]string{
	ImpactNiedrig:     "Niedrig",
	ImpactMittel:      "Mittel",
	ImpactHoch:        "Hoch",
	ImpactSehrHoch:    "Sehr hoch",
	ImpactStrategisch: "Strategisch",
}

func (i Impact) DisplayName() string {
	if name, ok := impactDisplayNames[i]; ok {
		return name
	}
	return string(i)
}

func (i Impact) Valid() bool {
	_, ok := impactDisplayNames[i]
	return ok
}

// StakeholderGroup 对应 stakeholder_groups 表，按公司隔离。
type StakeholderGroup struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Icon        string    `gorm:"type:varchar(64);not null;default:'people'" json:"icon"`
	Impact      Impact    `gorm:"type:varchar(32);not null" json:"impact"`
	Description string    `gorm:"type:text" json:"description"`
	CompanyID   uint      `gorm:"not null;index" json:"companyId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (StakeholderGroup) TableName() string {
	return "stakeholder_groups"
}

// StakeholderPerson 对应 stakeholder_persons 表。
// Email 与系统用户邮箱相同时视为同一人，用于按人汇总作答。
type StakeholderPerson struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"groupId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      string    `gorm:"type:varchar(255)" json:"role"`
	Email     string    `gorm:"type:varchar(255);index" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (StakeholderPerson) TableName() string {
	return "stakeholder_persons"
}

// MeasureStatus 变革措施状态
type MeasureStatus string

const (
	MeasureOpen       MeasureStatus = "OPEN"
	MeasureInProgress MeasureStatus = "IN_PROGRESS"
	MeasureCompleted  MeasureStatus = "COMPLETED"
	MeasureCancelled  MeasureStatus = "CANCELLED"
)

// Measure 对应 measures 表，聚合时只统计数量。
type Measure struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      MeasureStatus `gorm:"type:varchar(16);not null;default:'OPEN'" json:"status"`
	CompanyID   uint          `gorm:"not null;index" json:"companyId"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Measure) TableName() string {
	return "measures"
}
