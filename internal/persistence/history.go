package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/wattquest/wattquest-core/internal/infrastructure/database"
)

// PowerSample is one recorded household power reading.
type PowerSample struct {
	RecordedAt time.Time `json:"recorded_at"`
	TotalWatts int       `json:"total_watts"`
}

// PowerLog records household power readings into the power_history
// table, one row per committed mutation, for the energy overview chart.
type PowerLog struct {
	db *database.DB
}

// NewPowerLog creates a log over an open database handle.
func NewPowerLog(db *database.DB) *PowerLog {
	return &PowerLog{db: db}
}

// Record appends a reading.
func (l *PowerLog) Record(ctx context.Context, watts int) error {
	query := `INSERT INTO power_history (recorded_at, total_watts) VALUES (?, ?)`
	if _, err := l.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339Nano), watts); err != nil {
		return fmt.Errorf("persistence: record power: %w", err)
	}
	return nil
}

// Recent returns up to limit readings, newest first.
func (l *PowerLog) Recent(ctx context.Context, limit int) ([]PowerSample, error) {
	query := `
		SELECT recorded_at, total_watts
		FROM power_history
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`
	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("persistence: query power history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var samples []PowerSample
	for rows.Next() {
		var ts string
		var s PowerSample
		if err := rows.Scan(&ts, &s.TotalWatts); err != nil {
			return nil, fmt.Errorf("persistence: scan power sample: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			s.RecordedAt = t
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("persistence: iterate power history: %w", err)
	}
	return samples, nil
}

// Prune deletes readings older than the cutoff.
func (l *PowerLog) Prune(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	if _, err := l.db.ExecContext(ctx, `DELETE FROM power_history WHERE recorded_at < ?`, cutoff); err != nil {
		return fmt.Errorf("persistence: prune power history: %w", err)
	}
	return nil
}
