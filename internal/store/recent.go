package store

import (
	"context"
	"time"
)

// maxRecent caps the visit history; the trim keeps the most recently
// visited rows.
const maxRecent = 200

// Visit is one row of the recent-location history.
type Visit struct {
	URI         string
	Visits      int
	LastVisited time.Time
}

// RecordVisit upserts a deep link into the history, bumping its counter
// and recency, then trims the table to its cap.
func (s *Store) RecordVisit(ctx context.Context, uri string) error {
	if uri == "" {
		return nil
	}
	now := time.Now().UTC().UnixMilli()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO recent_locations(uri, visits, last_visited_unixms)
		VALUES(?, 1, ?)
		ON CONFLICT(uri) DO UPDATE SET
			visits = visits + 1,
			last_visited_unixms = excluded.last_visited_unixms`, uri, now); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM recent_locations WHERE uri NOT IN (
		SELECT uri FROM recent_locations ORDER BY last_visited_unixms DESC LIMIT ?)`, maxRecent)
	return err
}

// RecentLocations returns history rows, most recently visited first.
func (s *Store) RecentLocations(ctx context.Context, limit int) ([]Visit, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	rows, err := s.db.QueryContext(ctx, `SELECT uri, visits, last_visited_unixms
		FROM recent_locations ORDER BY last_visited_unixms DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ms int64
		if err := rows.Scan(&v.URI, &v.Visits, &ms); err != nil {
			return nil, err
		}
		v.LastVisited = time.UnixMilli(ms).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}
