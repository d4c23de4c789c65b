package store

import (
	"context"
	"database/sql"
	"time"
)

// Preset is a saved collection filter: a name the palette can recall, the
// kind it applies to, and the verbatim query.
type Preset struct {
	Name  string
	Kind  string
	Query string
}

// SavePreset stores or replaces a named filter.
func (s *Store) SavePreset(ctx context.Context, name, kind, query string) error {
	now := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO filter_presets(name, kind, query, updated_at_unixms) VALUES(?, ?, ?, ?)`,
		name, kind, query, now)
	return err
}

// LookupPreset resolves a preset by name; ok is false when no such preset
// exists.
func (s *Store) LookupPreset(ctx context.Context, name string) (kind, query string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT kind, query FROM filter_presets WHERE name = ?`, name).Scan(&kind, &query)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return kind, query, true, nil
}

// Presets lists every saved filter, sorted by name.
func (s *Store) Presets(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind, query FROM filter_presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.Name, &p.Kind, &p.Query); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePreset removes a saved filter; deleting a missing name is not an
// error.
func (s *Store) DeletePreset(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM filter_presets WHERE name = ?`, name)
	return err
}
