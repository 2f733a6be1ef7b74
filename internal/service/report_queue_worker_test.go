package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pargen/internal/domain"
	"pargen/internal/service"
	"pargen/mocks"
)

func TestReportQueueWorker_DispatchesClaimedJobs(t *testing.T) {
	jobRepo := new(mocks.MockReportJobRepo)
	reports := new(mocks.MockReportService)

	job := domain.ReportJob{ID: uuid.New(), SubmissionID: uuid.New(), Status: domain.JobStatusRunning}

	jobRepo.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.ReportJob{job}, nil).Once()
	jobRepo.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.ReportJob{}, nil).Maybe()
	reports.On("Run", mock.Anything, mock.AnythingOfType("*domain.ReportJob")).Return().Maybe()

	worker := service.NewReportQueueWorker(jobRepo, reports, service.ReportQueueConfig{
		PollInterval: 50 * time.Millisecond,
		Concurrency:  2,
		JobTimeout:   time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one poll cycle
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	jobRepo.AssertCalled(t, "ClaimPending", mock.Anything, mock.AnythingOfType("int"))
	reports.AssertCalled(t, "Run", mock.Anything, mock.AnythingOfType("*domain.ReportJob"))
}

func TestReportQueueWorker_StopsOnCancel(t *testing.T) {
	jobRepo := new(mocks.MockReportJobRepo)
	reports := new(mocks.MockReportService)

	jobRepo.On("ClaimPending", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.ReportJob{}, nil).Maybe()

	worker := service.NewReportQueueWorker(jobRepo, reports, service.ReportQueueConfig{
		PollInterval: 50 * time.Millisecond,
		Concurrency:  1,
		JobTimeout:   time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
