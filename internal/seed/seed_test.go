package seed

import (
	"testing"

	"github.com/physref/quicksheet/internal/catalog"
	"github.com/physref/quicksheet/internal/store"
)

func TestItemsAreValidAndUnique(t *testing.T) {
	items := Items()
	if len(items) == 0 {
		t.Fatal("empty seed set")
	}

	seen := make(map[string]bool)
	for i := range items {
		it := &items[i]
		if err := catalog.Validate(it); err != nil {
			t.Errorf("seed item %s: %v", it.ID, err)
		}
		if seen[it.ID] {
			t.Errorf("duplicate seed id %s", it.ID)
		}
		seen[it.ID] = true
		if it.Category == "" {
			t.Errorf("seed item %s has no category", it.ID)
		}
	}
}

func TestApply(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	defer db.Close()

	n, err := Apply(db)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	count, err := db.CountItems()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != n {
		t.Errorf("stored %d items, apply reported %d", count, n)
	}

	// Idempotent: re-applying does not duplicate.
	if _, err := Apply(db); err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	count2, _ := db.CountItems()
	if count2 != count {
		t.Errorf("re-apply changed count from %d to %d", count, count2)
	}
}
