package sqlite

import (
	"context"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

type activityRepo struct {
	db dbtx
}

const activityColumns = `id, user_id, action, details, ip_address, user_agent, metadata, created_at`

func scanActivity(row interface{ Scan(...any) error }) (domain.ActivityRecord, error) {
	var (
		rec  domain.ActivityRecord
		meta string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Action, &rec.Details,
		&rec.IPAddress, &rec.UserAgent, &meta, &rec.CreatedAt,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}
	rec.Metadata = decodeMap(meta)
	return rec, nil
}

func (r *activityRepo) CreateActivity(ctx context.Context, rec domain.ActivityRecord) error {
	meta, err := encodeMap(rec.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, user_id, action, details, ip_address, user_agent, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Action, rec.Details,
		rec.IPAddress, rec.UserAgent, meta, time.Now().UTC())
	return err
}

func (r *activityRepo) ListActivityByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activity_log
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivity(rows)
}

func (r *activityRepo) ListActivity(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activity_log ORDER BY created_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivity(rows)
}

func collectActivity(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]domain.ActivityRecord, error) {
	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *activityRepo) DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
