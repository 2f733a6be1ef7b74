package port

import (
	"context"

	"github.com/google/uuid"

	"pargen/internal/domain"
)

// SubmissionRepository persists submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
}
