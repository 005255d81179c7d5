// Package catalog handles bulk movement of items: JSON import with
// validation and id assignment, and JSON export.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/physref/quicksheet/internal/store"
)

// Import reads a JSON array of items, validates each entry, assigns
// ids where missing, and upserts the batch in one transaction. Returns
// the number of items written.
func Import(db *store.DB, r io.Reader) (int, error) {
	var items []store.Item
	dec := json.NewDecoder(r)
	if err := dec.Decode(&items); err != nil {
		return 0, fmt.Errorf("decode import: %w", err)
	}

	seen := make(map[string]bool, len(items))
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if err := Validate(it); err != nil {
			return 0, fmt.Errorf("item %d (%s): %w", i, it.ID, err)
		}
		if seen[it.ID] {
			return 0, fmt.Errorf("item %d: duplicate id %s", i, it.ID)
		}
		seen[it.ID] = true
		if it.Category == "" {
			it.Category = "Uncategorized"
		}
	}

	if err := db.BulkUpsert(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// Export writes every stored item as an indented JSON array.
func Export(db *store.DB, w io.Writer) error {
	items, err := db.GetAll()
	if err != nil {
		return err
	}
	if items == nil {
		items = []store.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Validate checks the structural rules a single item must satisfy.
func Validate(it *store.Item) error {
	switch it.Kind {
	case store.KindConstant, store.KindEquation:
	default:
		return fmt.Errorf("invalid kind %q", it.Kind)
	}
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if it.Kind == store.KindConstant && strings.TrimSpace(it.Value) == "" {
		return fmt.Errorf("constants require a value")
	}
	if it.Kind == store.KindEquation && strings.TrimSpace(it.Latex) == "" {
		return fmt.Errorf("equations require latex")
	}
	if it.Popularity < 0 {
		return fmt.Errorf("popularity must be non-negative")
	}
	return nil
}
