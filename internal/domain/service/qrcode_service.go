package service

// DonorCard is the content encoded in a donor card QR code.
type DonorCard struct {
	DonorID   string `json:"donor_id"`
	BloodType string `json:"blood_type"`
	Type      string `json:"type"`
}

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateDonorCardQR renders a PNG QR code identifying a donor
	GenerateDonorCardQR(donorID, bloodType string) ([]byte, error)

	// ParseDonorCardQR parses QR code data back into a donor card
	ParseDonorCardQR(qrData string) (*DonorCard, error)
}
