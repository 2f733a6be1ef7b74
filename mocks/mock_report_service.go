package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pargen/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Run(ctx context.Context, job *domain.ReportJob) {
	m.Called(ctx, job)
}
