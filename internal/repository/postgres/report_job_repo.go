package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pargen/internal/domain"
	"pargen/internal/port"
)

type reportJobRepo struct {
	db *sqlx.DB
}

// NewReportJobRepo creates a new PostgreSQL-backed ReportJobRepository.
func NewReportJobRepo(db *sqlx.DB) port.ReportJobRepository {
	return &reportJobRepo{db: db}
}

func (r *reportJobRepo) Create(ctx context.Context, job *domain.ReportJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}

	query := `INSERT INTO report_jobs (id, submission_id, status, error, output_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.SubmissionID, job.Status, job.Error, job.OutputKey, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reportJobRepo.Create: %w", err)
	}
	return nil
}

func (r *reportJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReportJob, error) {
	var job domain.ReportJob
	err := r.db.GetContext(ctx, &job, "SELECT * FROM report_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportJobRepo.GetByID: %w", err)
	}
	return &job, nil
}

func (r *reportJobRepo) GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error) {
	var job domain.ReportJob
	err := r.db.GetContext(ctx, &job,
		`SELECT * FROM report_jobs WHERE submission_id = $1 ORDER BY created_at DESC LIMIT 1`,
		submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reportJobRepo.GetBySubmissionID: %w", err)
	}
	return &job, nil
}

// ClaimPending moves up to limit pending jobs to running inside one statement.
// SKIP LOCKED keeps concurrent workers from claiming the same row.
func (r *reportJobRepo) ClaimPending(ctx context.Context, limit int) ([]domain.ReportJob, error) {
	query := `
		UPDATE report_jobs
		SET status = $1, started_at = $2, updated_at = $2
		WHERE id IN (
			SELECT id FROM report_jobs
			WHERE status = $3
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var jobs []domain.ReportJob
	err := r.db.SelectContext(ctx, &jobs, query,
		domain.JobStatusRunning, time.Now().UTC(), domain.JobStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("reportJobRepo.ClaimPending: %w", err)
	}
	return jobs, nil
}

func (r *reportJobRepo) MarkSuccess(ctx context.Context, id uuid.UUID, outputKey string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE report_jobs
		SET status = $1, output_key = $2, error = '', finished_at = $3, updated_at = $3
		WHERE id = $4`,
		domain.JobStatusSuccess, outputKey, now, id)
	if err != nil {
		return fmt.Errorf("reportJobRepo.MarkSuccess: %w", err)
	}
	return checkAffected(result, id)
}

func (r *reportJobRepo) MarkFailure(ctx context.Context, id uuid.UUID, errMsg string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE report_jobs
		SET status = $1, error = $2, finished_at = $3, updated_at = $3
		WHERE id = $4`,
		domain.JobStatusFailure, errMsg, now, id)
	if err != nil {
		return fmt.Errorf("reportJobRepo.MarkFailure: %w", err)
	}
	return checkAffected(result, id)
}

func checkAffected(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reportJobRepo: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reportJobRepo: job %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
