package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docinsight/internal/domain"
	"docinsight/internal/frame"
	"docinsight/internal/service"
)

// MockInsightService is a mock implementation of service.InsightService.
type MockInsightService struct {
	mock.Mock
}

func (m *MockInsightService) Ask(ctx context.Context, f *frame.Frame, query string) *service.Answer {
	args := m.Called(ctx, f, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.Answer)
}

func (m *MockInsightService) Chart(f *frame.Frame, req service.ChartRequest) (*service.ChartResult, error) {
	args := m.Called(f, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChartResult), args.Error(1)
}

func (m *MockInsightService) Analyze(f *frame.Frame, analysis domain.AnalysisType, column string) (any, error) {
	args := m.Called(f, analysis, column)
	return args.Get(0), args.Error(1)
}
