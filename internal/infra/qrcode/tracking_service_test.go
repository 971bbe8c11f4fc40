package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewTrackingService(tt.size, tt.errorCorrectionLevel, "")
			assert.NotNil(t, service)
		})
	}
}

func TestTrackingService_GenerateTrackingQR(t *testing.T) {
	service := NewTrackingService(256, "M", "")
	orderID := uuid.New()

	qrBytes, err := service.GenerateTrackingQR(orderID, "FARM-A1B2C3D4E5")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestTrackingService_TrackingURL(t *testing.T) {
	service := NewTrackingService(256, "M", "https://farmferia.example/").(*trackingService)

	// Trailing slash on the base URL is normalized away.
	assert.Equal(t, "https://farmferia.example", service.baseURL)

	qrBytes, err := service.GenerateTrackingQR(uuid.New(), "FARM-A1B2C3D4E5")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)
}

func TestTrackingService_ParseTrackingQR(t *testing.T) {
	service := NewTrackingService(256, "M", "")
	orderID := uuid.New()

	payload, err := json.Marshal(TrackingQRData{
		OrderID:        orderID.String(),
		TrackingNumber: "FARM-A1B2C3D4E5",
		Type:           trackingQRType,
	})
	require.NoError(t, err)

	parsed, err := service.ParseTrackingQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsed)
}

func TestTrackingService_ParseTrackingQR_WrongType(t *testing.T) {
	service := NewTrackingService(256, "M", "")

	payload, err := json.Marshal(TrackingQRData{
		OrderID: uuid.New().String(),
		Type:    "subscription",
	})
	require.NoError(t, err)

	_, err = service.ParseTrackingQR(string(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestTrackingService_ParseTrackingQR_InvalidJSON(t *testing.T) {
	service := NewTrackingService(256, "M", "")

	_, err := service.ParseTrackingQR("not-json")
	require.Error(t, err)
}

func TestTrackingService_ParseTrackingQR_BadOrderID(t *testing.T) {
	service := NewTrackingService(256, "M", "")

	payload, err := json.Marshal(TrackingQRData{
		OrderID: "not-a-uuid",
		Type:    trackingQRType,
	})
	require.NoError(t, err)

	_, err = service.ParseTrackingQR(string(payload))
	require.Error(t, err)
}
