package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"pargen/internal/config"
	"pargen/internal/domain"
	"pargen/internal/generator"
	"pargen/internal/port"
)

// ReportService runs one report job end to end: download inputs, extract
// text, generate and assemble all sections, render the document, and upload
// it back to storage.
type ReportService interface {
	Run(ctx context.Context, job *domain.ReportJob)
}

type reportService struct {
	subRepo   port.SubmissionRepository
	jobRepo   port.ReportJobRepository
	storage   port.ObjectStorage
	extractor port.TextExtractor
	assembler *generator.Assembler
	renderer  port.ReportRenderer
	cfg       *config.S3Config
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	subRepo port.SubmissionRepository,
	jobRepo port.ReportJobRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	assembler *generator.Assembler,
	renderer port.ReportRenderer,
	cfg *config.S3Config,
) ReportService {
	return &reportService{
		subRepo:   subRepo,
		jobRepo:   jobRepo,
		storage:   storage,
		extractor: extractor,
		assembler: assembler,
		renderer:  renderer,
		cfg:       cfg,
	}
}

// Run executes the job and records the terminal state. Any error anywhere in
// the chain marks the job failed with the error text; success is recorded
// only after the rendered document is confirmed uploaded.
func (s *reportService) Run(ctx context.Context, job *domain.ReportJob) {
	log.Printf("reportService.Run: starting job %s for submission %s", job.ID, job.SubmissionID)

	outputKey, err := s.run(ctx, job)
	if err != nil {
		log.Printf("reportService.Run: job %s failed: %v", job.ID, err)
		if markErr := s.jobRepo.MarkFailure(context.WithoutCancel(ctx), job.ID, err.Error()); markErr != nil {
			log.Printf("reportService.Run: failed to record failure for job %s: %v", job.ID, markErr)
		}
		return
	}

	if err := s.jobRepo.MarkSuccess(ctx, job.ID, outputKey); err != nil {
		log.Printf("reportService.Run: failed to record success for job %s: %v", job.ID, err)
		return
	}
	log.Printf("reportService.Run: job %s succeeded, report at %s", job.ID, outputKey)
}

func (s *reportService) run(ctx context.Context, job *domain.ReportJob) (string, error) {
	sub, err := s.subRepo.GetByID(ctx, job.SubmissionID)
	if err != nil {
		return "", fmt.Errorf("loading submission: %w", err)
	}
	inputs, err := sub.Inputs()
	if err != nil {
		return "", err
	}

	texts := make(map[string]string, len(inputs))
	for slot, key := range inputs {
		data, err := s.storage.Download(ctx, s.cfg.Bucket, key)
		if err != nil {
			return "", fmt.Errorf("downloading input %s: %w", slot, err)
		}
		text, err := s.extractor.ExtractText(ctx, data)
		if err != nil {
			return "", fmt.Errorf("extracting text from %s: %w", slot, err)
		}
		texts[slot] = text
	}

	report, err := s.assembler.Assemble(ctx, generator.BuildInputs(texts))
	if err != nil {
		return "", err
	}

	rendered, err := s.renderer.Render(report.Cover, report.TOC, report.Body)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	outputKey := sub.OutputKey()
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         outputKey,
		Body:        bytes.NewReader(rendered),
		ContentType: "application/pdf",
		Size:        int64(len(rendered)),
	})
	if err != nil {
		return "", fmt.Errorf("uploading rendered report: %w", err)
	}
	return outputKey, nil
}
