// Package qrcode renders and parses order tracking QR codes.
package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"farmferia/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type trackingService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// TrackingQRData represents the QR code data structure
type TrackingQRData struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Type           string `json:"type"`
	URL            string `json:"url,omitempty"`
}

const trackingQRType = "order_tracking"

// NewTrackingService creates a new tracking QR service instance
func NewTrackingService(size int, errorCorrectionLevel, baseURL string) service.TrackingService {
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

	return &trackingService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateTrackingQR renders a QR code image for an order's tracking number
func (s *trackingService) GenerateTrackingQR(orderID uuid.UUID, trackingNumber string) ([]byte, error) {
	data := TrackingQRData{
		OrderID:        orderID.String(),
		TrackingNumber: trackingNumber,
		Type:           trackingQRType,
	}
	if s.baseURL != "" {
		data.URL = fmt.Sprintf("%s/orders/%s/tracking", s.baseURL, orderID)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseTrackingQR parses QR code data and returns the order ID it points at
func (s *trackingService) ParseTrackingQR(qrData string) (uuid.UUID, error) {
	var data TrackingQRData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != trackingQRType {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse order ID: %w", err)
	}

	return orderID, nil
}
