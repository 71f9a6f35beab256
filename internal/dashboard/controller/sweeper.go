package controller

import (
	"log/slog"
	"time"
)

// Sweeper periodically evicts idle pages from a Registry.
type Sweeper struct {
	Registry *Registry
	Logger   *slog.Logger
	Interval time.Duration
	Idle     time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweeper creates a sweeper. Non-positive durations fall back to a one
// minute interval and a thirty minute idle timeout.
func NewSweeper(reg *Registry, logger *slog.Logger, interval, idle time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	return &Sweeper{
		Registry: reg,
		Logger:   logger,
		Interval: interval,
		Idle:     idle,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the sweep loop in the background. Call Stop to end it.
func (s *Sweeper) Start() {
	go s.run()
	s.Logger.Info("session sweeper started", "interval", s.Interval, "idle", s.Idle)
}

// Stop blocks until the loop has exited.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("session sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Registry.Sweep(s.Idle); n > 0 {
				s.Logger.Debug("evicted idle pages", "count", n)
			}
		case <-s.stopCh:
			return
		}
	}
}
