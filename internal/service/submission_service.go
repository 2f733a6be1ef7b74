package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pargen/internal/config"
	"pargen/internal/domain"
	"pargen/internal/port"
)

// SubmissionUpload is the DTO for one uploaded input document.
type SubmissionUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// SubmissionService defines the intake and retrieval contract.
type SubmissionService interface {
	// CreateSubmission validates and stores the uploaded documents, fills
	// every missing required slot with a placeholder blob, and enqueues one
	// report job for the new submission.
	CreateSubmission(ctx context.Context, uploads []SubmissionUpload) (*domain.Submission, *domain.ReportJob, error)
	GetJob(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error)
	// ResultURL returns a time-limited retrieval link for a finished report.
	ResultURL(ctx context.Context, submissionID uuid.UUID) (string, error)
	// DownloadReport streams the finished report's bytes.
	DownloadReport(ctx context.Context, submissionID uuid.UUID) ([]byte, error)
	// StorageProbe checks object storage connectivity.
	StorageProbe(ctx context.Context) error
}

type submissionService struct {
	subRepo port.SubmissionRepository
	jobRepo port.ReportJobRepository
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(
	subRepo port.SubmissionRepository,
	jobRepo port.ReportJobRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) SubmissionService {
	return &submissionService{
		subRepo: subRepo,
		jobRepo: jobRepo,
		storage: storage,
		cfg:     cfg,
	}
}

func (s *submissionService) CreateSubmission(ctx context.Context, uploads []SubmissionUpload) (*domain.Submission, *domain.ReportJob, error) {
	submissionID := uuid.New()
	inputs := make(map[string]string, len(domain.RequiredInputSlots))

	for _, up := range uploads {
		name := filepath.Base(up.Header.Filename)

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			return nil, nil, domain.ErrUnsupportedFileType
		}
		maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
		if up.Header.Size > maxBytes {
			return nil, nil, domain.ErrFileTooLarge
		}

		key := uploadKey(submissionID, name)
		log.Printf("submissionService.CreateSubmission: uploading %s (%d bytes) for submission %s",
			name, up.Header.Size, submissionID)

		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        up.File,
			ContentType: "application/pdf",
			Size:        up.Header.Size,
		})
		if err != nil {
			log.Printf("submissionService.CreateSubmission: upload failed for %s: %v", name, err)
			return nil, nil, domain.ErrUploadFailed
		}

		ok, err := s.storage.Exists(ctx, s.cfg.Bucket, key)
		if err != nil {
			return nil, nil, fmt.Errorf("verifying upload %s: %w", name, err)
		}
		if !ok {
			log.Printf("submissionService.CreateSubmission: uploaded object %s not found on verify", key)
			return nil, nil, domain.ErrUploadFailed
		}
		inputs[name] = key
	}

	// Every submission carries all nine named slots. Absent ones get a
	// zero-length placeholder so the job never fails on a missing input.
	for _, slot := range domain.RequiredInputSlots {
		if _, ok := inputs[slot]; ok {
			continue
		}
		key := uploadKey(submissionID, slot)
		log.Printf("submissionService.CreateSubmission: filling placeholder for slot %s", slot)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(nil),
			ContentType: "application/pdf",
		})
		if err != nil {
			return nil, nil, domain.ErrUploadFailed
		}
		inputs[slot] = key
	}

	sub := &domain.Submission{ID: submissionID}
	if err := sub.SetInputs(inputs); err != nil {
		return nil, nil, err
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, nil, fmt.Errorf("creating submission: %w", err)
	}

	job := &domain.ReportJob{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       domain.JobStatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("enqueuing report job: %w", err)
	}

	log.Printf("submissionService.CreateSubmission: submission %s created, job %s pending", sub.ID, job.ID)
	return sub, job, nil
}

func (s *submissionService) GetJob(ctx context.Context, submissionID uuid.UUID) (*domain.ReportJob, error) {
	return s.jobRepo.GetBySubmissionID(ctx, submissionID)
}

func (s *submissionService) ResultURL(ctx context.Context, submissionID uuid.UUID) (string, error) {
	job, err := s.jobRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	switch job.Status {
	case domain.JobStatusSuccess:
	case domain.JobStatusFailure:
		return "", domain.ErrJobFailed
	default:
		return "", domain.ErrReportNotReady
	}

	exists, err := s.storage.Exists(ctx, s.cfg.Bucket, job.OutputKey)
	if err != nil {
		return "", fmt.Errorf("checking report object: %w", err)
	}
	if !exists {
		return "", domain.ErrNotFound
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, job.OutputKey, s.cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning report url: %w", err)
	}
	return url, nil
}

func (s *submissionService) DownloadReport(ctx context.Context, submissionID uuid.UUID) ([]byte, error) {
	job, err := s.jobRepo.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusSuccess {
		return nil, domain.ErrReportNotReady
	}
	data, err := s.storage.Download(ctx, s.cfg.Bucket, job.OutputKey)
	if err != nil {
		return nil, fmt.Errorf("downloading report: %w", err)
	}
	return data, nil
}

func (s *submissionService) StorageProbe(ctx context.Context) error {
	return s.storage.Probe(ctx)
}

// uploadKey returns the storage key for one named input of a submission.
func uploadKey(submissionID uuid.UUID, name string) string {
	return fmt.Sprintf("uploads/%s/%s", submissionID, name)
}
