package service

import (
	"context"
	"log"
	"sync"
	"time"

	"pargen/internal/port"
)

// ReportQueueConfig holds settings for the report queue worker.
type ReportQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	JobTimeout   time.Duration
}

// ReportQueueWorker polls for pending report jobs and dispatches them.
type ReportQueueWorker struct {
	jobRepo port.ReportJobRepository
	reports ReportService
	cfg     ReportQueueConfig
	wg      sync.WaitGroup
}

// NewReportQueueWorker creates a new ReportQueueWorker.
func NewReportQueueWorker(jobRepo port.ReportJobRepository, reports ReportService, cfg ReportQueueConfig) *ReportQueueWorker {
	return &ReportQueueWorker{
		jobRepo: jobRepo,
		reports: reports,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight jobs have finished.
func (w *ReportQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("reportQueueWorker: started (poll=%s, concurrency=%d, jobTimeout=%s)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.JobTimeout)

	for {
		select {
		case <-ctx.Done():
			log.Printf("reportQueueWorker: shutting down, waiting for in-flight jobs...")
			w.wg.Wait()
			log.Printf("reportQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobRepo.ClaimPending(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("reportQueueWorker: ClaimPending error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight jobs complete even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
					defer cancel()

					log.Printf("reportQueueWorker: dispatching job %s", job.ID)
					w.reports.Run(jobCtx, &job)
				}()
			}
		}
	}
}
