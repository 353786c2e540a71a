package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
	"docinsight/internal/service"
)

// MockShippingService is a mock implementation of service.ShippingService.
type MockShippingService struct {
	mock.Mock
}

func (m *MockShippingService) Extract(ctx context.Context, name string, body io.Reader) (*domain.ShippingRecord, error) {
	args := m.Called(ctx, name, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShippingRecord), args.Error(1)
}

func (m *MockShippingService) ExtractBatch(ctx context.Context, uploads []service.Upload, progress service.Progress) *service.BatchResult {
	args := m.Called(ctx, uploads, progress)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.BatchResult)
}

func (m *MockShippingService) Export(records []domain.ShippingRecord, batch bool) ([]byte, string, error) {
	args := m.Called(records, batch)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
