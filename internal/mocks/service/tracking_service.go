package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTrackingService is a mock implementation of service.TrackingService.
type MockTrackingService struct {
	mock.Mock
}

// NewMockTrackingService creates a mock tied to the test's lifecycle.
func NewMockTrackingService(t *testing.T) *MockTrackingService {
	m := &MockTrackingService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTrackingService) GenerateTrackingQR(orderID uuid.UUID, trackingNumber string) ([]byte, error) {
	args := m.Called(orderID, trackingNumber)
	data, _ := args.Get(0).([]byte)

	return data, args.Error(1)
}

func (m *MockTrackingService) ParseTrackingQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)
	id, _ := args.Get(0).(uuid.UUID)

	return id, args.Error(1)
}
