package store

import (
	"context"
	"fmt"
	"time"
)

// RecordDelivery stores the outcome of one contact submission attempt.
func (s *Store) RecordDelivery(ctx context.Context, id, outcome string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries (id, outcome, created_at) VALUES (?, ?, ?)`,
		id, outcome, at.Unix())
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// DeliveryCounts returns the number of attempts per outcome.
func (s *Store) DeliveryCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM deliveries GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("delivery counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var n int64
		if err = rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan delivery count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
