package service

import (
	"github.com/google/uuid"
)

// TrackingService defines the interface for order tracking artifacts.
type TrackingService interface {
	// GenerateTrackingQR renders a QR code image for an order's tracking number.
	GenerateTrackingQR(orderID uuid.UUID, trackingNumber string) ([]byte, error)

	// ParseTrackingQR parses QR code data and returns the order ID it points at.
	ParseTrackingQR(qrData string) (uuid.UUID, error)
}
