package store

import (
	"database/sql"
	"fmt"
)

// GetPrefs returns the raw preferences JSON, or "" if none saved yet.
// Interpreting the blob (defaults, legacy shapes) is the prefs package's job.
func (db *DB) GetPrefs() (string, error) {
	var body string
	err := db.QueryRow("SELECT body FROM prefs WHERE id = 1").Scan(&body)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get prefs: %w", err)
	}
	return body, nil
}

// SetPrefs stores the preferences JSON blob.
func (db *DB) SetPrefs(body string) error {
	_, err := db.Exec(`
		INSERT INTO prefs (id, body) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body
	`, body)
	if err != nil {
		return fmt.Errorf("set prefs: %w", err)
	}
	return nil
}
