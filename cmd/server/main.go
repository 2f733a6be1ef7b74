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
	"pargen/internal/handler"
	"pargen/internal/render"
	"pargen/internal/repository/postgres"
	"pargen/internal/router"
	"pargen/internal/service"
	s3storage "pargen/internal/storage/s3"
)

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

	// Initialize repositories
	subRepo := postgres.NewSubmissionRepo(db)
	jobRepo := postgres.NewReportJobRepo(db)

	// Initialize storage and pipeline components
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

	// Initialize services
	submissionSvc := service.NewSubmissionService(subRepo, jobRepo, s3Client, &cfg.S3)
	reportSvc := service.NewReportService(subRepo, jobRepo, s3Client, extractor, assembler, renderer, &cfg.S3)

	// Run the report queue worker alongside the HTTP server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewReportQueueWorker(jobRepo, reportSvc, service.ReportQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
		JobTimeout:   time.Duration(cfg.Queue.JobTimeoutMins) * time.Minute,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Initialize handlers
	submissionH := handler.NewSubmissionHandler(submissionSvc, &cfg.Session)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, submissionH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	stop()
	<-workerDone
	return nil
}
