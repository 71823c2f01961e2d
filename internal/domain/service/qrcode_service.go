package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateCardQR generates the QR code printed on an insurance card,
	// encoding the verification URL for the registration.
	GenerateCardQR(registrationID uuid.UUID) ([]byte, error)

	// ParseCardQR parses QR code data and returns the registration ID
	ParseCardQR(qrData string) (uuid.UUID, error)
}
