package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pargen/internal/domain"
)

// MockReportJobRepo is a mock implementation of port.ReportJobRepository.
type MockReportJobRepo struct {
	mock.Mock
}

func (m *MockReportJobRepo) Create(ctx context.Context, job *domain.ReportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockReportJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportJob), args.Error(1)
}

func (m *MockReportJobRepo) GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportJob), args.Error(1)
}

func (m *MockReportJobRepo) ClaimPending(ctx context.Context, limit int) ([]domain.ReportJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportJob), args.Error(1)
}

func (m *MockReportJobRepo) MarkSuccess(ctx context.Context, id uuid.UUID, outputKey string) error {
	args := m.Called(ctx, id, outputKey)
	return args.Error(0)
}

func (m *MockReportJobRepo) MarkFailure(ctx context.Context, id uuid.UUID, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}
