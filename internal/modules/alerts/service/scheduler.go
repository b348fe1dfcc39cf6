package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes a Feed on a cron spec such as "@every 20s".
type Scheduler struct {
	cron    *cron.Cron
	feed    *Feed
	logger  *slog.Logger
	timeout time.Duration
}

func NewScheduler(spec string, feed *Feed, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger.With("component", "cron")}
	s := &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		feed:    feed,
		logger:  logger,
		timeout: 15 * time.Second,
	}
	if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid alert schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start refreshes once immediately, then hands over to cron.
func (s *Scheduler) Start(ctx context.Context) {
	if err := s.refreshWith(ctx); err != nil {
		s.logger.Error("initial alert refresh failed", "error", err)
	}
	s.cron.Start()
}

// Stop stops scheduling and waits for a running refresh, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("alert refresh still running at shutdown")
	}
}

func (s *Scheduler) refresh() {
	if err := s.refreshWith(context.Background()); err != nil {
		s.logger.Error("scheduled alert refresh failed", "error", err)
	}
}

func (s *Scheduler) refreshWith(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.feed.Refresh(ctx)
}

// cronLogger routes cron's logr-style logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
