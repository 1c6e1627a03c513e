// Package qrcode renders donor cards as QR code images.
package qrcode

import (
	"encoding/json"

	"thalassist/config"
	"thalassist/internal/domain/entity"
	"thalassist/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	donorCardType = "donor_card"
	defaultSize   = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// New builds the service from the qrcode config section.
func New(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
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
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateDonorCardQR renders a PNG QR code identifying a donor
func (s *qrcodeService) GenerateDonorCardQR(donorID, bloodType string) ([]byte, error) {
	if donorID == "" {
		return nil, errors.New("donor id is required")
	}

	jsonData, err := json.Marshal(service.DonorCard{
		DonorID:   donorID,
		BloodType: bloodType,
		Type:      donorCardType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal donor card")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseDonorCardQR parses QR code content back into a donor card
func (s *qrcodeService) ParseDonorCardQR(qrData string) (*service.DonorCard, error) {
	var card service.DonorCard
	if err := json.Unmarshal([]byte(qrData), &card); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal donor card")
	}

	if card.Type != donorCardType {
		return nil, errors.Errorf("invalid QR code type: %s", card.Type)
	}
	if card.DonorID == "" {
		return nil, errors.New("donor card has no donor id")
	}
	if _, ok := entity.ParseBloodType(card.BloodType); !ok {
		return nil, errors.Errorf("invalid blood type on donor card: %s", card.BloodType)
	}

	return &card, nil
}
