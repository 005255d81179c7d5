package rank

import (
	"sort"
	"strings"

	"github.com/physref/quicksheet/internal/store"
	"github.com/sahilm/fuzzy"
)

// MatchThreshold is the worst normalized distance still accepted.
const MatchThreshold = 0.35

// matchFields are the searched fields with their match weights. A hit
// on a lesser field carries a distance penalty proportional to its
// weight deficit against the top field, so a perfect tag match still
// ranks below a perfect name match.
var matchFields = []struct {
	Weight float64
	Get    func(store.Item) []string
}{
	{0.55, func(i store.Item) []string { return []string{i.Name} }},
	{0.30, func(i store.Item) []string { return []string{i.Symbol} }},
	{0.25, func(i store.Item) []string { return []string{i.Text} }},
	{0.20, func(i store.Item) []string { return i.Tags }},
	{0.10, func(i store.Item) []string { return []string{i.Category} }},
}

const topFieldWeight = 0.55

// Candidate is one item paired with its match quality for a query.
// Matched is false when the query was empty: the item is a candidate
// with no textual relevance at all, which is distinct from distance 0.
type Candidate struct {
	Item     store.Item
	Distance float64
	Matched  bool
}

// Match runs the fuzzy matcher over the collection. An empty or
// whitespace-only query bypasses matching and keeps every item; a
// non-empty query keeps only items within MatchThreshold on their
// best weighted field, emitted in relevance order.
func Match(items []store.Item, query string) []Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Candidate, len(items))
		for i, it := range items {
			out[i] = Candidate{Item: it}
		}
		return out
	}

	q := strings.ToLower(query)

	var out []Candidate
	for _, it := range items {
		best := 2.0
		for _, f := range matchFields {
			penalty := weightPenalty * (1 - f.Weight/topFieldWeight)
			for _, text := range f.Get(it) {
				d, ok := fieldDistance(q, text)
				if !ok {
					continue
				}
				if wd := min1(d + penalty); wd < best {
					best = wd
				}
			}
		}
		if best <= MatchThreshold {
			out = append(out, Candidate{Item: it, Distance: best, Matched: true})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// weightPenalty spreads the field weights over the distance scale:
// a perfect match on the lightest field (category, 0.10) lands at
// ~0.20, still inside the threshold but behind every heavier field.
const weightPenalty = 0.25

// fieldDistance bands: exact 0, substring (0, 0.25], fuzzy (0.2, 1].
//
// The fuzzy band normalizes by match density: query length over the
// span of matched positions. A contiguous run has density 1; every
// gap character (a dropped letter, a typo hole) dilutes it. The raw
// library score is unusable here, it rewards long consecutive runs
// superlinearly and a single mid-word gap would crater it.
func fieldDistance(q, text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	if t == q {
		return 0, true
	}
	if idx := strings.Index(t, q); idx >= 0 {
		return 0.05 + 0.2*float64(idx)/float64(len(t)), true
	}

	matches := fuzzy.Find(q, []string{t})
	if len(matches) == 0 {
		return 0, false
	}
	idx := matches[0].MatchedIndexes
	if len(idx) == 0 {
		return 0, false
	}
	span := idx[len(idx)-1] - idx[0] + 1
	density := float64(len(idx)) / float64(span)
	return 0.2 + 0.8*(1-density), true
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
