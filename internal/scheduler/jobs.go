package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

// refreshTimeout bounds one refresh pass across all holdings.
const refreshTimeout = 2 * time.Minute

// RefreshJob refreshes live quotes for all holdings.
type RefreshJob struct {
	quoteService *service.QuoteService
}

// NewRefreshJob creates the periodic quote refresh job.
func NewRefreshJob(quoteService *service.QuoteService) *RefreshJob {
	return &RefreshJob{quoteService: quoteService}
}

// Name identifies the job in logs.
func (j *RefreshJob) Name() string { return "quote-refresh" }

// Run performs one refresh pass.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := j.quoteService.RefreshQuotes(ctx)
	if err != nil {
		return err
	}

	log.Printf("Refreshed %d holdings, %d failed", result.Refreshed, len(result.Failed))
	return nil
}

// SnapshotJob records the portfolio's value under today's date.
type SnapshotJob struct {
	portfolioService *service.PortfolioService
}

// NewSnapshotJob creates the daily value snapshot job.
func NewSnapshotJob(portfolioService *service.PortfolioService) *SnapshotJob {
	return &SnapshotJob{portfolioService: portfolioService}
}

// Name identifies the job in logs.
func (j *SnapshotJob) Name() string { return "daily-snapshot" }

// Run records one snapshot.
func (j *SnapshotJob) Run() error {
	snapshot, err := j.portfolioService.RecordSnapshot()
	if err != nil {
		return err
	}

	log.Printf("Recorded snapshot for %s: %.2f", snapshot.Date, snapshot.Value)
	return nil
}
