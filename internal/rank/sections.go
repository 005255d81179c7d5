package rank

import (
	"sort"
	"time"

	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/store"
	"golang.org/x/text/collate"
)

// categoryOrder is the static ordinal table for explicit-order section
// sorting. Categories absent from the table sort after all listed ones.
var categoryOrder = map[string]int{
	"Kinematics":     1,
	"Dynamics":       2,
	"Work & Energy":  3,
	"Momentum":       4,
	"Rotation":       5,
	"Oscillations":   6,
	"Thermodynamics": 7,
	"Constants":      99,
}

const categoryOrderUnlisted = 100

// Section is one category-labeled slice of the ranked output.
type Section struct {
	Category string   `json:"category"`
	Items    []Scored `json:"items"`
}

// sectionize partitions ranked items by category and orders sections
// and their members. Pure: same inputs always produce the same output.
func sectionize(ranked []Scored, mode prefs.RankingMode, view UsageView, halfLifeDays float64, now time.Time, coll *collate.Collator) []Section {
	byCat := make(map[string][]Scored)
	var order []string
	for _, s := range ranked {
		cat := s.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		if _, seen := byCat[cat]; !seen {
			order = append(order, cat)
		}
		byCat[cat] = append(byCat[cat], s)
	}

	sections := make([]Section, 0, len(order))
	for _, cat := range order {
		sections = append(sections, Section{Category: cat, Items: byCat[cat]})
	}

	if mode == prefs.ModePopularityFirst {
		mix := func(items []Scored) (mean, max float64) {
			for _, s := range items {
				m := MixScore(s.Item, view, halfLifeDays, now)
				mean += m
				if m > max {
					max = m
				}
			}
			// Mean rather than total, so a large section is not
			// rewarded purely for its size.
			mean /= float64(len(items))
			return mean, max
		}
		sort.SliceStable(sections, func(i, j int) bool {
			meanI, maxI := mix(sections[i].Items)
			meanJ, maxJ := mix(sections[j].Items)
			if meanI != meanJ {
				return meanI > meanJ
			}
			if maxI != maxJ {
				return maxI > maxJ
			}
			return coll.CompareString(sections[i].Category, sections[j].Category) < 0
		})
	} else {
		sort.SliceStable(sections, func(i, j int) bool {
			oi, oj := categoryOrdinal(sections[i].Category), categoryOrdinal(sections[j].Category)
			if oi != oj {
				return oi < oj
			}
			return sections[i].Category < sections[j].Category
		})
	}

	// Within-section order follows the browsing policies regardless of
	// query: the score ordering decides the flat list and the top
	// result, the curated/learned order decides display inside a group.
	for _, sec := range sections {
		if mode == prefs.ModePopularityFirst {
			sortPopularity(sec.Items, view, halfLifeDays, now, coll)
		} else {
			sortExplicit(sec.Items, coll)
		}
	}

	return sections
}

func categoryOrdinal(cat string) int {
	if o, ok := categoryOrder[cat]; ok {
		return o
	}
	return categoryOrderUnlisted
}

// Categories returns the category-selector list: "All" first, then
// "Constants" pinned when present, then the rest in table order.
func Categories(items []store.Item) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		oi, oj := categoryOrdinal(cats[i]), categoryOrdinal(cats[j])
		if oi != oj {
			return oi < oj
		}
		return cats[i] < cats[j]
	})

	out := []string{"All"}
	if seen["Constants"] {
		out = append(out, "Constants")
	}
	for _, c := range cats {
		if c != "Constants" {
			out = append(out, c)
		}
	}
	return out
}
