// Package rank is the retrieval core: fuzzy matching, multi-signal
// time-decayed scoring, the two browsing orders, and the grouping that
// turns a scored list into displayable sections.
//
// Ranking is a pure function of (item collection, query, category
// filter, preferences, usage view): identical inputs always yield
// identical ordered output.
package rank

import (
	"strings"
	"time"

	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/store"
)

// Request is one ranking pass's input besides the collection and the
// usage view. Category "" means no filter. Now anchors the decay math
// so a pass is reproducible.
type Request struct {
	Query        string
	Category     string
	Mode         prefs.RankingMode
	HalfLifeDays float64
	Now          time.Time
}

// Result is the ordered output of one pass. Ranked is the flat policy
// order (score-descending under a query, browsing order otherwise);
// Sections is the grouped display structure.
type Result struct {
	Ranked   []Scored  `json:"ranked"`
	Sections []Section `json:"sections"`
}

// Rank runs the full pipeline: match, filter, score, order, group.
func Rank(items []store.Item, view UsageView, req Request) Result {
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	candidates := Match(items, req.Query)

	// Category filter before scoring; scoring after would give the
	// same result, the filter and the score are independent.
	if req.Category != "" {
		kept := candidates[:0]
		for _, c := range candidates {
			cat := c.Item.Category
			if cat == "" {
				cat = "Uncategorized"
			}
			if cat == req.Category {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	searching := strings.TrimSpace(req.Query) != ""
	ranked := make([]Scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = Scored{
			Item:  c.Item,
			Score: score(c, view, req.HalfLifeDays, req.Now),
		}
	}

	coll := newCollator()
	if searching {
		// With a query the flat order is always pure score-descending;
		// the browsing modes only govern the no-query order.
		sortByScore(ranked)
	} else if req.Mode == prefs.ModePopularityFirst {
		sortPopularity(ranked, view, req.HalfLifeDays, req.Now, coll)
	} else {
		sortExplicit(ranked, coll)
	}

	return Result{
		Ranked:   ranked,
		Sections: sectionize(ranked, req.Mode, view, req.HalfLifeDays, req.Now, coll),
	}
}

// TopResult resolves the first item of the first section: the item the
// copy action targets. Nil when nothing survived matching/filtering.
func (r Result) TopResult() *Scored {
	if len(r.Sections) == 0 || len(r.Sections[0].Items) == 0 {
		return nil
	}
	return &r.Sections[0].Items[0]
}
