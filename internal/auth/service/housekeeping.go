package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/store"
)

// HousekeepingService periodically deletes defunct sessions and prunes
// old activity records to prevent unbounded table growth. It is the only
// thing allowed to remove audit rows.
type HousekeepingService struct {
	Store             store.Store
	Logger            *slog.Logger
	Interval          time.Duration
	ActivityRetention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to 1 hour; a non-positive retention to 90 days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:             st,
		Logger:            logger,
		Interval:          interval,
		ActivityRetention: retention,
		stopCh:            make(chan struct{}),
		doneCh:            make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"activity_retention", s.ActivityRetention,
	)
}

// Stop shuts the worker down, blocking until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the deletions. Each is independent; one failing won't
// stop the other.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	swept, err := s.Store.Sessions().DeleteDefunctSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to sweep defunct sessions", "error", err)
	} else {
		s.Logger.Debug("swept defunct sessions", "count", swept)
	}

	pruned, err := s.Store.Activity().DeleteActivityBefore(ctx, now.Add(-s.ActivityRetention))
	if err != nil {
		s.Logger.Error("failed to prune activity log", "error", err)
	} else {
		s.Logger.Debug("pruned activity log", "count", pruned)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"sessions_swept", swept,
		"activity_pruned", pruned,
	)
}
