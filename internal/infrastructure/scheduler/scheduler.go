// Package scheduler runs the civic site's background jobs (listing cache
// refresh, outbox relay) on fixed schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/civic-hub/civic-site/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
	Manual      bool
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrNilJob                  = errors.New("job cannot be nil")
	ErrNilSchedule             = errors.New("schedule cannot be nil")
	ErrJobAlreadyExists        = errors.New("job already exists")
	ErrJobNotFound             = errors.New("job not found")
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler manages and executes scheduled jobs. A job never overlaps with
// itself: a tick that finds the previous run still going is skipped.
type Scheduler struct {
	mu sync.RWMutex

	logger       *slog.Logger
	tick         time.Duration
	runOnStart   bool
	historyLimit int

	jobs      map[string]*scheduledJob
	running   bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time
	history   []JobResult
}

type scheduledJob struct {
	job       Job
	schedule  Schedule
	nextRun   time.Time
	inFlight  bool
	runCount  int64
	failCount int64
	last      *JobResult
}

// Config contains configuration for the Scheduler.
type Config struct {
	Logger *slog.Logger

	// Tick is how often due jobs are checked (default: 1s).
	Tick time.Duration

	// RunOnStart runs every job once as soon as Start is called.
	RunOnStart bool

	// HistoryLimit is the maximum number of results kept (default: 100).
	HistoryLimit int
}

// New creates a new Scheduler with the given configuration.
func New(config Config) *Scheduler {
	if config.Tick <= 0 {
		config.Tick = time.Second
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 100
	}

	return &Scheduler{
		logger:       logger.OrDefault(config.Logger).With(logger.Component("scheduler")),
		tick:         config.Tick,
		runOnStart:   config.RunOnStart,
		historyLimit: config.HistoryLimit,
		jobs:         make(map[string]*scheduledJob),
	}
}

// Register adds a job to the scheduler with the given schedule.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	sj := &scheduledJob{job: job, schedule: schedule, nextRun: schedule.Next(time.Now())}
	s.jobs[name] = sj

	s.logger.Info("job registered",
		logger.Job(name),
		slog.String("schedule", schedule.String()),
		slog.Time("next_run", sj.nextRun))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerAlreadyRunning
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.startedAt = time.Now()
	if s.runOnStart {
		now := time.Now()
		for _, sj := range s.jobs {
			sj.nextRun = now
		}
	}
	jobCount := len(s.jobs)
	s.mu.Unlock()

	s.logger.Info("scheduler started", slog.Int("jobs", jobCount))

	s.wg.Add(1)
	go s.runLoop()
	if s.runOnStart {
		s.checkAndRunJobs(time.Now())
	}
	return nil
}

// Stop cancels the loop and waits for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped", slog.Duration("uptime", time.Since(s.startedAt)))
	return nil
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER LOOP
// ══════════════════════════════════════════════════════════════════════════════

func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.checkAndRunJobs(now)
		}
	}
}

func (s *Scheduler) checkAndRunJobs(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sj := range s.jobs {
		if sj.inFlight || now.Before(sj.nextRun) {
			continue
		}
		sj.inFlight = true
		sj.nextRun = sj.schedule.Next(now)
		s.wg.Add(1)
		go s.runJob(sj)
	}
}

func (s *Scheduler) runJob(sj *scheduledJob) {
	defer s.wg.Done()

	result := s.execute(s.ctx, sj.job, false)

	s.mu.Lock()
	sj.inFlight = false
	s.recordLocked(sj, result)
	s.mu.Unlock()
}

func (s *Scheduler) execute(ctx context.Context, job Job, manual bool) JobResult {
	name := job.Name()
	startedAt := time.Now()
	s.logger.DebugContext(ctx, "job started", logger.Job(name), slog.Bool("manual", manual))

	err := job.Run(ctx)
	completedAt := time.Now()
	result := JobResult{
		JobName:     name,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Success:     err == nil,
		Error:       err,
		Manual:      manual,
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "job failed",
			logger.Job(name), logger.Latency(result.Duration), logger.Err(err))
	} else {
		s.logger.InfoContext(ctx, "job completed",
			logger.Job(name), logger.Latency(result.Duration))
	}
	return result
}

func (s *Scheduler) recordLocked(sj *scheduledJob, result JobResult) {
	sj.runCount++
	if !result.Success {
		sj.failCount++
	}
	sj.last = &result

	s.history = append(s.history, result)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
}

// RunNow immediately executes a job by name, ignoring its schedule.
func (s *Scheduler) RunNow(ctx context.Context, jobName string) (JobResult, error) {
	s.mu.RLock()
	sj, exists := s.jobs[jobName]
	s.mu.RUnlock()
	if !exists {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobName)
	}

	result := s.execute(ctx, sj.job, true)

	s.mu.Lock()
	s.recordLocked(sj, result)
	s.mu.Unlock()
	return result, result.Error
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS & INFO
// ══════════════════════════════════════════════════════════════════════════════

// JobInfo contains information about a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	NextRun     time.Time
	RunCount    int64
	FailCount   int64
	LastResult  *JobResult
}

// ListJobs returns information about all registered jobs, sorted by name.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, sj := range s.jobs {
		infos = append(infos, JobInfo{
			Name:        name,
			Description: sj.job.Description(),
			Schedule:    sj.schedule.String(),
			NextRun:     sj.nextRun,
			RunCount:    sj.runCount,
			FailCount:   sj.failCount,
			LastResult:  sj.last,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// History returns up to limit of the most recent results, oldest first.
func (s *Scheduler) History(limit int) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]JobResult, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}
