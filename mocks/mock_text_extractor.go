package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, name string, body io.Reader) (string, error) {
	args := m.Called(ctx, name, body)
	return args.String(0), args.Error(1)
}
