package model

import (
	"time"

	"github.com/google/uuid"
)

// InsuranceRegistrationModel mirrors the 'insurance_registrations' table.
// AdditionalInfo holds raw JSON.
type InsuranceRegistrationModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	PlanID           uuid.UUID  `gorm:"type:uuid;index;not null"`
	SchoolID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status           string     `gorm:"type:varchar(20);index;not null;default:'pending'"`
	RegistrationDate time.Time  `gorm:"index;not null"`
	StartDate        *time.Time `gorm:"type:date"`
	EndDate          *time.Time `gorm:"type:date"`
	AdditionalInfo   []byte     `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Persons []RegistrationPersonModel `gorm:"foreignKey:RegistrationID"`
}

// TableName explicitly sets the table name for GORM.
func (InsuranceRegistrationModel) TableName() string {
	return "insurance_registrations"
}

// RegistrationPersonModel mirrors the 'registration_persons' join table
// linking registrations to the covered persons.
type RegistrationPersonModel struct {
	RegistrationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PersonID       uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (RegistrationPersonModel) TableName() string {
	return "registration_persons"
}
