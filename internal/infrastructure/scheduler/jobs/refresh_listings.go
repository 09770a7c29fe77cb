// Package jobs contains the scheduled jobs of the civic site worker.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/civic-hub/civic-site/internal/application/query"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH LISTINGS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ListingRefresher recomputes cached listings.
type ListingRefresher interface {
	Refresh(ctx context.Context) (query.RefreshResult, error)
}

// RefreshListingsJob rewrites featured items and statistics in the listing
// cache so page renders rarely see a cold key.
type RefreshListingsJob struct {
	refresher ListingRefresher
	timeout   time.Duration
	logger    *slog.Logger

	last atomic.Pointer[query.RefreshResult]
}

// NewRefreshListingsJob creates the job. A zero timeout means one minute.
func NewRefreshListingsJob(refresher ListingRefresher, timeout time.Duration, log *slog.Logger) *RefreshListingsJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &RefreshListingsJob{
		refresher: refresher,
		timeout:   timeout,
		logger:    logger.OrDefault(log).With(logger.Job("refresh_listings")),
	}
}

func (j *RefreshListingsJob) Name() string { return "refresh_listings" }

func (j *RefreshListingsJob) Description() string {
	return "Recomputes featured projects, events and news plus listing statistics into the cache"
}

// Run refreshes every listing. A partial failure is returned as an error but
// the keys that succeeded stay written.
func (j *RefreshListingsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	result, err := j.refresher.Refresh(ctx)
	j.last.Store(&result)
	if err != nil {
		return fmt.Errorf("refresh listings: %d of %d keys failed: %w",
			len(result.Failed), len(result.Failed)+len(result.Keys), err)
	}
	return nil
}

// LastResult returns the result of the most recent run, if any.
func (j *RefreshListingsJob) LastResult() (query.RefreshResult, bool) {
	r := j.last.Load()
	if r == nil {
		return query.RefreshResult{}, false
	}
	return *r, true
}
