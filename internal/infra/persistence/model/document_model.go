package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentModel mirrors the 'user_documents' table. The blob itself is
// in object storage under StorageKey.
type DocumentModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID  `gorm:"type:uuid;index:idx_document_user_type;not null"`
	DocumentType   string     `gorm:"type:varchar(50);index:idx_document_user_type;not null"`
	Title          string     `gorm:"type:varchar(200);not null"`
	Description    string     `gorm:"type:text"`
	StorageKey     string     `gorm:"type:varchar(255);unique;not null"`
	FileName       string     `gorm:"type:varchar(255);not null"`
	FileSize       int64      `gorm:"not null"`
	MimeType       string     `gorm:"type:varchar(100)"`
	RegistrationID *uuid.UUID `gorm:"type:uuid;index"`
	PersonID       *uuid.UUID `gorm:"type:uuid;index"`
	IsVerified     bool       `gorm:"index;not null;default:false"`
	VerifiedBy     *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (DocumentModel) TableName() string {
	return "user_documents"
}
