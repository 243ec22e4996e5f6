package service

import (
	"context"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/idx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// ActivityService keeps the best-effort audit trail. Writes are never
// allowed to fail the security action they record: errors are logged and
// swallowed.
type ActivityService struct {
	Store store.Store
}

// Record appends an audit entry. Always returns; a failed write is a log
// line, not an error.
func (s *ActivityService) Record(ctx context.Context, userID, action, details, ip, userAgent string, metadata map[string]string) {
	rec := domain.ActivityRecord{
		ID:        idx.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
		Metadata:  metadata,
	}
	if err := s.Store.Activity().CreateActivity(ctx, rec); err != nil {
		slogx.FromContext(ctx).Error("activity write failed",
			"action", action,
			"user_id", userID,
			"error", err,
		)
	}
}

// ListByUser returns a user's audit trail, newest first.
func (s *ActivityService) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityRecord, error) {
	return s.Store.Activity().ListActivityByUser(ctx, userID, normalizeLimit(limit))
}

// List returns the most recent audit records across all users.
func (s *ActivityService) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	return s.Store.Activity().ListActivity(ctx, normalizeLimit(limit))
}

// Prune removes records older than the retention window.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.Store.Activity().DeleteActivityBefore(ctx, time.Now().UTC().Add(-retention))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
