package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind distinguishes constants from equations.
type ItemKind string

const (
	KindConstant ItemKind = "constant"
	KindEquation ItemKind = "equation"
)

// Item is a single reference entry: a physical constant or an equation.
// Rank is the curated explicit-order key; nil means unranked (sorts last).
type Item struct {
	ID         string   `json:"id"`
	Kind       ItemKind `json:"kind"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol,omitempty"`
	Value      string   `json:"value,omitempty"`
	Units      string   `json:"units,omitempty"`
	Latex      string   `json:"latex,omitempty"`
	Text       string   `json:"text,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Category   string   `json:"category"`
	Source     string   `json:"source,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Rank       *float64 `json:"rank,omitempty"`
}

const itemColumns = `id, kind, name, symbol, value, units, latex, body, tags, category, source, popularity, rank`

// GetAll returns every item, ordered by name for a stable baseline.
func (db *DB) GetAll() ([]Item, error) {
	rows, err := db.Query(`SELECT ` + itemColumns + ` FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("get all items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// GetItem returns an item by id, or nil if not found.
func (db *DB) GetItem(id string) (*Item, error) {
	row := db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

// UpsertItem inserts or replaces an item by id.
func (db *DB) UpsertItem(item *Item) error {
	if item.Category == "" {
		item.Category = "Uncategorized"
	}
	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		INSERT INTO items (`+itemColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind, name = excluded.name, symbol = excluded.symbol,
			value = excluded.value, units = excluded.units, latex = excluded.latex,
			body = excluded.body, tags = excluded.tags, category = excluded.category,
			source = excluded.source, popularity = excluded.popularity,
			rank = excluded.rank, updated_at = excluded.updated_at
	`, item.ID, item.Kind, item.Name, nullIfEmpty(item.Symbol), nullIfEmpty(item.Value),
		nullIfEmpty(item.Units), nullIfEmpty(item.Latex), nullIfEmpty(item.Text),
		string(tags), item.Category, nullIfEmpty(item.Source), item.Popularity, item.Rank,
		now, now)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// BulkUpsert upserts a batch of items inside one transaction.
func (db *DB) BulkUpsert(items []Item) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin bulk upsert: %w", err)
	}
	now := time.Now().UnixMilli()
	for i := range items {
		item := &items[i]
		if item.Category == "" {
			item.Category = "Uncategorized"
		}
		tags, err := json.Marshal(item.Tags)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal tags for %s: %w", item.ID, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO items (`+itemColumns+`, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind, name = excluded.name, symbol = excluded.symbol,
				value = excluded.value, units = excluded.units, latex = excluded.latex,
				body = excluded.body, tags = excluded.tags, category = excluded.category,
				source = excluded.source, popularity = excluded.popularity,
				rank = excluded.rank, updated_at = excluded.updated_at
		`, item.ID, item.Kind, item.Name, nullIfEmpty(item.Symbol), nullIfEmpty(item.Value),
			nullIfEmpty(item.Units), nullIfEmpty(item.Latex), nullIfEmpty(item.Text),
			string(tags), item.Category, nullIfEmpty(item.Source), item.Popularity, item.Rank,
			now, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("bulk upsert %s: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk upsert: %w", err)
	}
	return nil
}

// DeleteItem removes an item and its usage row.
func (db *DB) DeleteItem(id string) error {
	if _, err := db.Exec("DELETE FROM usage WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("delete usage for %s: %w", id, err)
	}
	if _, err := db.Exec("DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// ClearAll wipes items, usage, and recency. Preferences survive.
func (db *DB) ClearAll() error {
	for _, stmt := range []string{"DELETE FROM items", "DELETE FROM usage"} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("clear all: %w", err)
		}
	}
	return nil
}

// CountItems returns the total number of stored items.
func (db *DB) CountItems() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var it Item
	var symbol, value, units, latex, body, tags, source sql.NullString
	var rank sql.NullFloat64
	err := row.Scan(&it.ID, &it.Kind, &it.Name, &symbol, &value, &units, &latex,
		&body, &tags, &it.Category, &source, &it.Popularity, &rank)
	if err != nil {
		return nil, err
	}
	it.Symbol = symbol.String
	it.Value = value.String
	it.Units = units.String
	it.Latex = latex.String
	it.Text = body.String
	it.Source = source.String
	if rank.Valid {
		r := rank.Float64
		it.Rank = &r
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &it.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags for %s: %w", it.ID, err)
		}
	}
	return &it, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
