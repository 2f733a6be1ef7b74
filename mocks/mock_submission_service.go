package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pargen/internal/domain"
	"pargen/internal/service"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) CreateSubmission(ctx context.Context, uploads []service.SubmissionUpload) (*domain.Submission, *domain.ReportJob, error) {
	args := m.Called(ctx, uploads)
	var sub *domain.Submission
	var job *domain.ReportJob
	if args.Get(0) != nil {
		sub = args.Get(0).(*domain.Submission)
	}
	if args.Get(1) != nil {
		job = args.Get(1).(*domain.ReportJob)
	}
	return sub, job, args.Error(2)
}

func (m *MockSubmissionService) GetJob(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportJob), args.Error(1)
}

func (m *MockSubmissionService) ResultURL(ctx context.Context, submissionID uuid.UUID) (string, error) {
	args := m.Called(ctx, submissionID)
	return args.String(0), args.Error(1)
}

func (m *MockSubmissionService) DownloadReport(ctx context.Context, submissionID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSubmissionService) StorageProbe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
