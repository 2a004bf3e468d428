package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/farellandr/goalfeed/internal/platform/logging"
	"github.com/farellandr/goalfeed/internal/usecase"
)

// Syncer is the subset of the sync service the scheduler drives.
type Syncer interface {
	SyncLive(ctx context.Context) (usecase.SyncResult, error)
	SyncUpcoming(ctx context.Context) (usecase.SyncResult, error)
	SyncFinished(ctx context.Context) (usecase.SyncResult, error)
}

type Config struct {
	LiveInterval     time.Duration
	UpcomingInterval time.Duration
	FinishedInterval time.Duration
	// StartupDelay schedules one upcoming sync shortly after boot so the
	// store is warm before the first ticker fires. Negative disables it.
	StartupDelay time.Duration
}

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
	busy     atomic.Bool
}

// Scheduler runs the periodic sync jobs. Each job skips a tick when its
// previous run is still in flight, so slow provider calls never stack
// overlapping passes of the same job.
type Scheduler struct {
	syncer Syncer
	cfg    Config
	logger *logging.Logger
	wg     conc.WaitGroup
}

func New(syncer Syncer, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		syncer: syncer,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches the job loops. They run until ctx is cancelled; call Wait
// to block until every loop has drained.
func (s *Scheduler) Start(ctx context.Context) {
	jobs := []*job{
		{name: "sync_live", interval: s.cfg.LiveInterval, run: s.runLive},
		{name: "sync_upcoming", interval: s.cfg.UpcomingInterval, run: s.runUpcoming},
		{name: "sync_finished", interval: s.cfg.FinishedInterval, run: s.runFinished},
	}

	upcoming := jobs[1]
	if s.cfg.StartupDelay >= 0 {
		s.wg.Go(func() {
			timer := time.NewTimer(s.cfg.StartupDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				s.execute(ctx, upcoming)
			}
		})
	}

	for _, item := range jobs {
		j := item
		if j.interval <= 0 {
			s.logger.Warn("job disabled: non-positive interval", "job", j.name)
			continue
		}
		s.wg.Go(func() {
			s.loop(ctx, j)
		})
	}

	s.logger.Info("scheduler started",
		"live_interval", s.cfg.LiveInterval,
		"upcoming_interval", s.cfg.UpcomingInterval,
		"finished_interval", s.cfg.FinishedInterval,
	)
}

// Wait blocks until every job loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	if !j.busy.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "skip tick: previous run still in flight", "job", j.name)
		return
	}
	defer j.busy.Store(false)

	start := time.Now()
	if err := j.run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.ErrorContext(ctx, "sync job failed", "job", j.name, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "sync job finished", "job", j.name, "duration", time.Since(start))
}

func (s *Scheduler) runLive(ctx context.Context) error {
	_, err := s.syncer.SyncLive(ctx)
	return err
}

func (s *Scheduler) runUpcoming(ctx context.Context) error {
	_, err := s.syncer.SyncUpcoming(ctx)
	return err
}

func (s *Scheduler) runFinished(ctx context.Context) error {
	_, err := s.syncer.SyncFinished(ctx)
	return err
}
