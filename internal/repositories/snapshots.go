package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Snapshot is one cached collection: the JSON body the server returned for a
// resource and query, and when it was fetched.
type Snapshot struct {
	Resource  string
	Query     string
	Body      []byte
	ItemCount int
	FetchedAt time.Time
}

// SnapshotRepository persists collection snapshots to SQLite.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a repository on an open, migrated database.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// QueryKey canonicalizes query parameters so equivalent queries share one
// snapshot row.
func QueryKey(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	return query.Encode()
}

// Save upserts the snapshot for a (resource, query) pair. items is marshaled
// to JSON; the previous snapshot for the pair is replaced wholesale, matching
// how the live view replaces its list on every successful fetch.
func (r *SnapshotRepository) Save(resource string, query url.Values, items any, count int) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (resource, query, body, item_count, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (resource, query) DO UPDATE SET
			body = excluded.body,
			item_count = excluded.item_count,
			fetched_at = excluded.fetched_at
	`, resource, QueryKey(query), string(body), count, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for a (resource, query) pair, or nil when none is
// cached.
func (r *SnapshotRepository) Get(resource string, query url.Values) (*Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT resource, query, body, item_count, fetched_at
		FROM snapshots
		WHERE resource = ? AND query = ?
	`, resource, QueryKey(query))

	var snap Snapshot
	var body string
	err := row.Scan(&snap.Resource, &snap.Query, &body, &snap.ItemCount, &snap.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap.Body = []byte(body)
	return &snap, nil
}

// List returns all cached snapshots, most recently fetched first.
func (r *SnapshotRepository) List() ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT resource, query, body, item_count, fetched_at
		FROM snapshots
		ORDER BY fetched_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var body string
		if err := rows.Scan(&snap.Resource, &snap.Query, &body, &snap.ItemCount, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.Body = []byte(body)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Prune removes snapshots fetched before the cutoff and reports how many rows
// were deleted.
func (r *SnapshotRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM snapshots WHERE fetched_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return result.RowsAffected()
}
