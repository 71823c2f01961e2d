package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"bimeh/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	RegistrationID string `json:"registration_id"`
	Type           string `json:"type"`
	VerifyURL      string `json:"verify_url,omitempty"`
}

const cardQRType = "insurance_card"

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateCardQR generates the QR code printed on an insurance card
func (s *qrcodeService) GenerateCardQR(registrationID uuid.UUID) ([]byte, error) {
	// Create QR code data
	data := QRCodeData{
		RegistrationID: registrationID.String(),
		Type:           cardQRType,
	}
	if s.baseURL != "" {
		data.VerifyURL = fmt.Sprintf("%s/registrations/%s/verify", s.baseURL, registrationID)
	}

	// Convert to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	// Generate QR code
	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	// Generate PNG image
	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseCardQR parses QR code data and returns the registration ID
func (s *qrcodeService) ParseCardQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	// Validate type
	if data.Type != cardQRType {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	// Parse UUID
	registrationID, err := uuid.Parse(data.RegistrationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse registration ID: %w", err)
	}

	return registrationID, nil
}
