// Package orchestrator triggers fetch-all runs on a schedule, at startup and
// on demand, and keeps at most one run in flight.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"newsdash/config"
	"newsdash/metrics"
	sharedtypes "newsdash/shared/types"
	"newsdash/types"
)

// Fetcher runs one pass over every active source, or over a single one.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]types.Article, error)
	FetchSource(ctx context.Context, src types.Source) []types.Article
}

// Trigger names what started a run.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
	TriggerKafka    Trigger = "kafka"
	// TriggerSource is the first fetch of a newly added source.
	TriggerSource Trigger = "source"
)

// RunResult is the outcome of one fetch-all run.
type RunResult struct {
	RunID     string
	Trigger   Trigger
	StartedAt time.Time
	Duration  time.Duration
	Articles  []types.Article
	Err       error
}

// Count is the number of articles the run stored.
func (r RunResult) Count() int {
	return len(r.Articles)
}

// Scheduler owns the run triggers.
type Scheduler struct {
	fetcher      Fetcher
	guard        RunGuard
	state        *stateManager
	logger       *slog.Logger
	schedule     string
	startupDelay time.Duration

	cron   *cron.Cron
	cronID cron.EntryID

	mu           sync.Mutex
	started      bool
	startupTimer *time.Timer
	wg           sync.WaitGroup

	// runs use this context so that only Stop cancels them
	baseCtx context.Context
	cancel  context.CancelFunc
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGuard replaces the in-process run guard.
func WithGuard(g RunGuard) Option {
	return func(s *Scheduler) { s.guard = g }
}

// WithSchedule sets the cron spec. An empty spec disables periodic runs.
func WithSchedule(spec string) Option {
	return func(s *Scheduler) { s.schedule = spec }
}

// WithStartupDelay sets the delay of the startup run. A negative delay
// disables it.
func WithStartupDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.startupDelay = d }
}

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a scheduler around fetcher.
func New(fetcher Fetcher, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		fetcher:      fetcher,
		guard:        NewLocalGuard(),
		state:        newStateManager(),
		logger:       slog.Default(),
		schedule:     config.DefaultSchedule,
		startupDelay: config.DefaultStartupDelay,
		cron:         cron.New(),
		baseCtx:      ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the cron job and arms the startup run.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}

	if s.schedule != "" {
		id, err := s.cron.AddFunc(s.schedule, func() { s.runBackground(TriggerSchedule) })
		if err != nil {
			return fmt.Errorf("failed to add cron job: %w", err)
		}
		s.cronID = id
		s.cron.Start()
		s.logger.Info("Cron job started", "schedule", s.schedule)
	}

	if s.startupDelay >= 0 {
		s.wg.Add(1)
		s.startupTimer = time.AfterFunc(s.startupDelay, func() {
			defer s.wg.Done()
			s.runBackground(TriggerStartup)
		})
	}

	s.started = true
	return nil
}

// Stop cancels any in-flight run and waits for background runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.startupTimer != nil && s.startupTimer.Stop() {
		s.wg.Done()
	}
	s.mu.Unlock()

	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// Trigger runs FetchAll now. ctx only bounds acquiring the guard; the run
// itself is cancelled by Stop. A run already in flight yields ErrRunInProgress.
func (s *Scheduler) Trigger(ctx context.Context, trigger Trigger) (RunResult, error) {
	return s.run(ctx, trigger, s.fetcher.FetchAll)
}

// FetchSourceNow fetches a single source under the same guard as Trigger, so
// it never overlaps a fetch-all run.
func (s *Scheduler) FetchSourceNow(ctx context.Context, src types.Source) (RunResult, error) {
	return s.run(ctx, TriggerSource, func(ctx context.Context) ([]types.Article, error) {
		return s.fetcher.FetchSource(ctx, src), nil
	})
}

func (s *Scheduler) run(ctx context.Context, trigger Trigger, fetch func(context.Context) ([]types.Article, error)) (RunResult, error) {
	release, err := s.guard.Acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			metrics.RecordRun(string(trigger), "rejected", 0)
		}
		return RunResult{}, err
	}
	defer release()

	res := RunResult{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	s.state.begin(res.RunID)
	s.logger.Info("Fetch run started", "run_id", res.RunID, "trigger", trigger)

	res.Articles, res.Err = fetch(s.baseCtx)
	res.Duration = time.Since(res.StartedAt)
	s.state.finish(res)

	status := "ok"
	if res.Err != nil {
		status = "failed"
		s.logger.Error("Fetch run failed", "run_id", res.RunID, "error", res.Err)
	} else {
		s.logger.Info("Fetch run finished", "run_id", res.RunID, "articles", res.Count(), "duration", res.Duration.Round(time.Millisecond))
	}
	metrics.RecordRun(string(trigger), status, res.Duration.Seconds())

	return res, res.Err
}

func (s *Scheduler) runBackground(trigger Trigger) {
	if s.baseCtx.Err() != nil {
		return
	}
	_, err := s.Trigger(s.baseCtx, trigger)
	if errors.Is(err, ErrRunInProgress) {
		s.logger.Info("Fetch run skipped: another run is in progress", "trigger", trigger)
	}
}

// Status returns a snapshot of the scheduler state.
func (s *Scheduler) Status() sharedtypes.StatusResponse {
	st := s.state.snapshot()
	st.Schedule = s.schedule

	s.mu.Lock()
	id := s.cronID
	s.mu.Unlock()
	if id != 0 {
		if next := s.cron.Entry(id).Next; !next.IsZero() {
			st.NextRun = &next
		}
	}
	return st
}
