package store

import (
	"fmt"
	"time"
)

// GetUsage returns the use count per item id. Items never copied are absent.
func (db *DB) GetUsage() (map[string]int, error) {
	rows, err := db.Query("SELECT item_id, use_count FROM usage WHERE use_count > 0")
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		usage[id] = count
	}
	return usage, rows.Err()
}

// GetRecent returns the last-used timestamp (ms since epoch) per item id.
func (db *DB) GetRecent() (map[string]int64, error) {
	rows, err := db.Query("SELECT item_id, last_used_at FROM usage WHERE last_used_at IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("get recent: %w", err)
	}
	defer rows.Close()

	recent := make(map[string]int64)
	for rows.Next() {
		var id string
		var ts int64
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		recent[id] = ts
	}
	return recent, rows.Err()
}

// MarkUsed increments the use counter and stamps the recency timestamp
// for one item, atomically. The only mutation path for learned ranking.
func (db *DB) MarkUsed(id string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO usage (item_id, use_count, last_used_at) VALUES (?, 1, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			use_count = use_count + 1, last_used_at = excluded.last_used_at
	`, id, now)
	if err != nil {
		return fmt.Errorf("mark used %s: %w", id, err)
	}
	return nil
}

// ResetLearning clears all usage counters and recency timestamps.
func (db *DB) ResetLearning() error {
	if _, err := db.Exec("DELETE FROM usage"); err != nil {
		return fmt.Errorf("reset learning: %w", err)
	}
	return nil
}
