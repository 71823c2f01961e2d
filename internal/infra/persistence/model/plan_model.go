package model

import (
	"time"

	"github.com/google/uuid"
)

// InsurancePlanModel mirrors the 'insurance_plans' table. Premiums are
// whole rials.
type InsurancePlanModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name           string    `gorm:"type:varchar(100);unique;not null"`
	PlanType       string    `gorm:"type:varchar(20);not null;default:'basic'"`
	Description    string    `gorm:"type:text;not null"`
	MonthlyPremium int64     `gorm:"not null"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Coverages []PlanCoverageModel `gorm:"foreignKey:PlanID"`
}

// TableName explicitly sets the table name for GORM.
func (InsurancePlanModel) TableName() string {
	return "insurance_plans"
}

// PlanCoverageModel mirrors the 'plan_coverages' table. A plan holds at
// most one coverage per coverage type.
type PlanCoverageModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PlanID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plan_coverage_type"`
	CoverageType       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_plan_coverage_type"`
	Title              string    `gorm:"type:varchar(100);not null"`
	Description        string    `gorm:"type:text;not null"`
	CoverageAmount     int64     `gorm:"not null"`
	CoveragePercentage int       `gorm:"not null"`
	MaxUsageCount      *int
	IsActive           bool `gorm:"not null;default:true"`
	CreatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlanCoverageModel) TableName() string {
	return "plan_coverages"
}
