package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"pargen/internal/config"
	"pargen/internal/extract"
	"pargen/internal/generator"
	"pargen/internal/render"
	"pargen/internal/repository/postgres"
	"pargen/internal/service"
	s3storage "pargen/internal/storage/s3"
)

// Standalone report worker for deployments that separate web and background
// processing. Runs the same queue loop the server embeds.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	subRepo := postgres.NewSubmissionRepo(db)
	jobRepo := postgres.NewReportJobRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	extractor, err := extract.NewPDFExtractor()
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}
	assembler := generator.NewAssembler(generator.NewClient(&cfg.Generator))
	renderer := render.NewPDFRenderer()

	reportSvc := service.NewReportService(subRepo, jobRepo, s3Client, extractor, assembler, renderer, &cfg.S3)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewReportQueueWorker(jobRepo, reportSvc, service.ReportQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
		JobTimeout:   time.Duration(cfg.Queue.JobTimeoutMins) * time.Minute,
	})

	log.Printf("Report worker starting")
	worker.Start(ctx)
	return nil
}
