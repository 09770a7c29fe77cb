package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/pkg/logger"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	err   error
	block chan struct{}
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "test job" }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
		}
	}
	return j.err
}

func newTestScheduler(runOnStart bool) *Scheduler {
	return New(Config{Logger: logger.Discard(), Tick: 5 * time.Millisecond, RunOnStart: runOnStart})
}

func TestEvery_ClampsAndFormats(t *testing.T) {
	s := Every(10 * time.Millisecond)
	assert.Equal(t, MinInterval, s.Interval)

	s = Every(5 * time.Minute)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(5*time.Minute), s.Next(base))
	assert.Equal(t, "@every 5m0s", s.String())
}

func TestScheduler_Register(t *testing.T) {
	s := newTestScheduler(false)
	job := &countingJob{name: "a"}

	require.NoError(t, s.Register(job, Every(time.Minute)))
	assert.ErrorIs(t, s.Register(job, Every(time.Minute)), ErrJobAlreadyExists)
	assert.ErrorIs(t, s.Register(nil, Every(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "b"}, nil), ErrNilSchedule)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "@every 1m0s", jobs[0].Schedule)
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := newTestScheduler(true)
	job := &countingJob{name: "refresh"}
	require.NoError(t, s.Register(job, Every(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())

	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
	assert.Equal(t, int32(1), job.runs.Load(), "hourly job runs once")
	assert.Len(t, s.History(0), 1)
}

func TestScheduler_NoOverlap(t *testing.T) {
	s := newTestScheduler(true)
	job := &countingJob{name: "slow", block: make(chan struct{})}
	require.NoError(t, s.Register(job, IntervalSchedule{Interval: time.Millisecond}))

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load(), "a running job is not started again")

	close(job.block)
	require.NoError(t, s.Stop())
}

func TestScheduler_RunNowRecordsFailure(t *testing.T) {
	s := newTestScheduler(false)
	boom := errors.New("boom")
	require.NoError(t, s.Register(&countingJob{name: "relay", err: boom}, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "relay")
	assert.ErrorIs(t, err, boom)
	assert.False(t, result.Success)
	assert.True(t, result.Manual)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, int64(1), jobs[0].FailCount)

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
