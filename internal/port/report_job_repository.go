package port

import (
	"context"

	"github.com/google/uuid"

	"pargen/internal/domain"
)

// ReportJobRepository persists report generation jobs.
type ReportJobRepository interface {
	Create(ctx context.Context, job *domain.ReportJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReportJob, error)
	GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error)
	// ClaimPending atomically moves up to limit pending jobs to running and
	// returns them, oldest first. Concurrent workers never claim the same job.
	ClaimPending(ctx context.Context, limit int) ([]domain.ReportJob, error)
	MarkSuccess(ctx context.Context, id uuid.UUID, outputKey string) error
	MarkFailure(ctx context.Context, id uuid.UUID, errMsg string) error
}
