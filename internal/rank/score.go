package rank

import (
	"math"
	"time"

	"github.com/physref/quicksheet/internal/store"
)

const msPerDay = 86_400_000

// Score blend weights. Tuned for this domain; the tanh compressions
// bound unbounded usage/popularity counts with diminishing returns so
// a heavily-used item cannot drown out text relevance.
const (
	wText    = 0.45
	wUse     = 0.35
	wRecency = 0.10
	wPop     = 0.10
)

// UsageView is one consistent reading of the usage store: copy counts
// and last-used timestamps (ms since epoch) keyed by item id. A view
// is either live (read at the start of the ranking pass) or a frozen
// snapshot kept across passes; the scorer does not know which.
type UsageView struct {
	Counts   map[string]int
	LastUsed map[string]int64
}

// EmptyView is a view with no recorded usage.
func EmptyView() UsageView {
	return UsageView{Counts: map[string]int{}, LastUsed: map[string]int64{}}
}

// SnapshotView reads a usage view from the store.
func SnapshotView(db *store.DB) (UsageView, error) {
	counts, err := db.GetUsage()
	if err != nil {
		return UsageView{}, err
	}
	recent, err := db.GetRecent()
	if err != nil {
		return UsageView{}, err
	}
	return UsageView{Counts: counts, LastUsed: recent}, nil
}

// DecayedUse is the use count decayed by elapsed time since last use:
// count × 0.5^(ageDays/halfLife). Zero when never used; the raw count
// when halfLifeDays <= 0 (decay disabled — guards the division).
func (v UsageView) DecayedUse(id string, halfLifeDays float64, now time.Time) float64 {
	count := v.Counts[id]
	last, ok := v.LastUsed[id]
	if count <= 0 || !ok {
		return 0
	}
	if halfLifeDays <= 0 {
		return float64(count)
	}
	ageDays := float64(now.UnixMilli()-last) / msPerDay
	return float64(count) * math.Pow(0.5, ageDays/halfLifeDays)
}

// used reports whether the item has any recorded recency at all.
func (v UsageView) used(id string) bool {
	_, ok := v.LastUsed[id]
	return ok
}

// score maps a candidate plus usage signals to a single float in [0,1],
// meaningful only for relative ordering within one pass.
func score(c Candidate, view UsageView, halfLifeDays float64, now time.Time) float64 {
	// Neutral 0.5 outside search so usage and popularity alone can
	// still differentiate items.
	textRelevance := 0.5
	if c.Matched {
		textRelevance = 1 - math.Min(c.Distance, 1)
	}

	use := view.DecayedUse(c.Item.ID, halfLifeDays, now)

	recencyBoost := 0.0
	if view.used(c.Item.ID) {
		recencyBoost = 1
	}

	pop := float64(c.Item.Popularity)
	if pop < 0 {
		pop = 0
	}

	return wText*textRelevance + wUse*math.Tanh(use/2) + wRecency*recencyBoost + wPop*math.Tanh(pop/5)
}

// MixScore is the browsing-order blend used by popularity-first mode:
// 0.7·decayedUse + 0.3·popularity. Unlike score it is unbounded.
func MixScore(item store.Item, view UsageView, halfLifeDays float64, now time.Time) float64 {
	pop := float64(item.Popularity)
	if pop < 0 {
		pop = 0
	}
	return 0.7*view.DecayedUse(item.ID, halfLifeDays, now) + 0.3*pop
}
