package entity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType categorizes an uploaded file.
type DocumentType string

const (
	DocumentNationalID          DocumentType = "national_id"
	DocumentBirthCertificate    DocumentType = "birth_certificate"
	DocumentMarriageCertificate DocumentType = "marriage_certificate"
	DocumentEmploymentLetter    DocumentType = "employment_letter"
	DocumentInsuranceRequest    DocumentType = "insurance_request"
	DocumentMedicalRecords      DocumentType = "medical_records"
	DocumentOther               DocumentType = "other"
)

// String returns the string representation of the DocumentType.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid checks if the DocumentType is a valid value.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentNationalID, DocumentBirthCertificate, DocumentMarriageCertificate,
		DocumentEmploymentLetter, DocumentInsuranceRequest, DocumentMedicalRecords,
		DocumentOther:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the document type.
func (d DocumentType) Label() string {
	switch d {
	case DocumentNationalID:
		return "کارت ملی"
	case DocumentBirthCertificate:
		return "شناسنامه"
	case DocumentMarriageCertificate:
		return "سند ازدواج"
	case DocumentEmploymentLetter:
		return "حکم کارگزینی"
	case DocumentInsuranceRequest:
		return "فرم درخواست بیمه"
	case DocumentMedicalRecords:
		return "مدارک پزشکی"
	case DocumentOther:
		return "سایر"
	default:
		return "نامشخص"
	}
}

// MaxDocumentBytes is the upload size ceiling for a single document.
const MaxDocumentBytes int64 = 10 * 1024 * 1024

var allowedDocumentExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {},
	".doc": {}, ".docx": {}, ".zip": {}, ".rar": {},
}

// AllowedDocumentExtension reports whether the file name carries an
// accepted extension.
func AllowedDocumentExtension(fileName string) bool {
	_, ok := allowedDocumentExtensions[strings.ToLower(filepath.Ext(fileName))]

	return ok
}

// Document is an uploaded supporting file. The blob itself lives in
// object storage under StorageKey; this entity carries its metadata and
// verification state.
type Document struct {
	ID             uuid.UUID    // The unique identifier for this document.
	UserID         uuid.UUID    // The account that uploaded the file.
	DocumentType   DocumentType // The category of the document.
	Title          string       // User-supplied title.
	Description    string       // Optional user-supplied description.
	StorageKey     string       // Blob key: documents/<user_id>/<uuid>.<ext>.
	FileName       string       // The original upload file name.
	FileSize       int64        // File size in bytes.
	MimeType       string       // The reported content type, if any.
	RegistrationID *uuid.UUID   // Optional link to a registration.
	PersonID       *uuid.UUID   // Optional link to a covered person.
	IsVerified     bool         // Whether staff has verified the document.
	VerifiedBy     *uuid.UUID   // The staff account that verified it.
	VerifiedAt     *time.Time   // When verification happened.
	CreatedAt      time.Time    // Timestamp of the upload.
	UpdatedAt      time.Time    // Timestamp of the last modification.
}

// FileExtension returns the lowercased extension of the original file name.
func (d *Document) FileExtension() string {
	return strings.ToLower(filepath.Ext(d.FileName))
}

// FileSizeMB returns the file size in megabytes, rounded to two decimals.
func (d *Document) FileSizeMB() float64 {
	mb := float64(d.FileSize) / (1024 * 1024)

	return float64(int(mb*100+0.5)) / 100
}
