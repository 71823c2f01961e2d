package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonModel mirrors the 'persons' table. The national code is unique
// per owning account, not globally.
type PersonModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_person_user_code"`
	FirstName    string    `gorm:"type:varchar(100);not null"`
	LastName     string    `gorm:"type:varchar(100);not null"`
	NationalCode string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_person_user_code"`
	BirthDate    time.Time `gorm:"type:date;not null"`
	Relation     string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (PersonModel) TableName() string {
	return "persons"
}
