package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationNodeModel mirrors the five hierarchy tables above schools:
// states, cities, counties, regions and districts. All five share this
// shape; the concrete table is chosen per query from the tier, and
// ParentID is null only in the states table.
type LocationNodeModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Code       string     `gorm:"type:varchar(10);not null"`
	OrderIndex int        `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

// SchoolModel mirrors the 'schools' table, the leaf of the hierarchy.
type SchoolModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DistrictID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Code       string    `gorm:"type:varchar(20);unique;not null"`
	SchoolType string    `gorm:"type:varchar(20);not null;default:'elementary'"`
	Address    string    `gorm:"type:text"`
	Phone      string    `gorm:"type:varchar(11)"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (SchoolModel) TableName() string {
	return "schools"
}
