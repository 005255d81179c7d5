package rank

import (
	"math"
	"sort"
	"time"

	"github.com/physref/quicksheet/internal/store"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Scored is an item with its computed relevance score. Recomputed on
// every ranking pass, never persisted.
type Scored struct {
	store.Item
	Score float64 `json:"score"`
}

// newCollator builds the locale-aware name comparator. Collators are
// not safe for concurrent use, so each sorting pass gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// sortByScore orders strictly descending by score. Stable: ties keep
// the matcher's emission order.
func sortByScore(items []Scored) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// sortExplicit applies the curated browsing order: rank ascending
// (absent rank sorts last), then popularity descending, then name.
func sortExplicit(items []Scored, coll *collate.Collator) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rankOrInf(items[i].Rank), rankOrInf(items[j].Rank)
		if ri != rj {
			return ri < rj
		}
		if items[i].Popularity != items[j].Popularity {
			return items[i].Popularity > items[j].Popularity
		}
		return coll.CompareString(items[i].Name, items[j].Name) < 0
	})
}

// sortPopularity applies the learned browsing order: mixScore
// descending, tie-break by name.
func sortPopularity(items []Scored, view UsageView, halfLifeDays float64, now time.Time, coll *collate.Collator) {
	sort.SliceStable(items, func(i, j int) bool {
		si := MixScore(items[i].Item, view, halfLifeDays, now)
		sj := MixScore(items[j].Item, view, halfLifeDays, now)
		if si != sj {
			return si > sj
		}
		return coll.CompareString(items[i].Name, items[j].Name) < 0
	})
}

func rankOrInf(r *float64) float64 {
	if r == nil {
		return math.Inf(1)
	}
	return *r
}
