package service

import (
	"github.com/google/uuid"
)

// QRCodeService renders share codes for public listings
type QRCodeService interface {
	// GeneratePropertyQR returns a PNG encoding the public URL of the listing
	GeneratePropertyQR(propertyID uuid.UUID) ([]byte, error)

	// PropertyURL returns the public URL encoded in the listing's QR code
	PropertyURL(propertyID uuid.UUID) string
}
