package store

import (
	"context"
	"time"
)

type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	TotalDeliveries  int64            `json:"total_deliveries"`
	Deliveries       map[string]int64 `json:"deliveries"`
	RecentVisitors   []Visitor        `json:"recent_visitors"`
}

// Stats aggregates the dashboard numbers relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors").Scan(&stats.TotalVisitors)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors").Scan(&stats.UniqueVisitors)
	if err != nil {
		return nil, err
	}

	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitors WHERE created_at >= ?", today.Unix()).Scan(&stats.VisitorsToday)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitors WHERE created_at >= ?", now.Add(-7*24*time.Hour).Unix()).Scan(&stats.VisitorsThisWeek)
	if err != nil {
		return nil, err
	}

	if stats.Deliveries, err = s.DeliveryCounts(ctx); err != nil {
		return nil, err
	}
	for _, n := range stats.Deliveries {
		stats.TotalDeliveries += n
	}

	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}
