package rank

import (
	"reflect"
	"testing"
	"time"

	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/store"
)

func fp(v float64) *float64 { return &v }

func constantsFixture() []store.Item {
	return []store.Item{
		{ID: "g", Kind: store.KindConstant, Name: "Standard gravity", Symbol: "g",
			Value: "9.80665", Category: "Constants", Popularity: 10, Rank: fp(1)},
		{ID: "k_B", Kind: store.KindConstant, Name: "Boltzmann constant", Symbol: "k_B",
			Value: "1.380649e-23", Category: "Constants", Popularity: 5, Rank: fp(2)},
	}
}

func TestRankDeterminism(t *testing.T) {
	now := time.Now()
	items := matchFixture()
	v := viewWith("g", 3, now.Add(-24*time.Hour))

	req := Request{Query: "velocity", Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: now}
	first := Rank(items, v, req)
	second := Rank(items, v, req)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different ranking output")
	}
}

func TestRankExplicitOrderEndToEnd(t *testing.T) {
	res := Rank(constantsFixture(), EmptyView(), Request{
		Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now(),
	})

	if len(res.Sections) != 1 || res.Sections[0].Category != "Constants" {
		t.Fatalf("expected single Constants section, got %+v", res.Sections)
	}
	got := res.Sections[0].Items
	if len(got) != 2 || got[0].ID != "g" || got[1].ID != "k_B" {
		t.Errorf("section order = [%s %s], want [g k_B]", got[0].ID, got[1].ID)
	}
}

func TestRankPopularityFirstEndToEnd(t *testing.T) {
	// No usage recorded: order by 0.3×popularity ⇒ g(3.0) before k_B(1.5).
	res := Rank(constantsFixture(), EmptyView(), Request{
		Mode: prefs.ModePopularityFirst, HalfLifeDays: 30, Now: time.Now(),
	})

	got := res.Sections[0].Items
	if got[0].ID != "g" || got[1].ID != "k_B" {
		t.Errorf("order = [%s %s], want [g k_B]", got[0].ID, got[1].ID)
	}
}

func TestRankPopularityFirstUsageBeatsPopularity(t *testing.T) {
	now := time.Now()
	items := []store.Item{
		{ID: "a", Kind: store.KindEquation, Name: "Alpha", Latex: "a", Category: "Kinematics", Popularity: 0},
		{ID: "b", Kind: store.KindEquation, Name: "Beta", Latex: "b", Category: "Kinematics", Popularity: 10},
	}
	v := viewWith("a", 10, now) // mixScore(a)=7.0 vs mixScore(b)=3.0

	res := Rank(items, v, Request{Mode: prefs.ModePopularityFirst, HalfLifeDays: 30, Now: now})
	if res.Ranked[0].ID != "a" {
		t.Errorf("top = %s, want a (7.0 > 3.0)", res.Ranked[0].ID)
	}
}

func TestRankExplicitTieBreakChain(t *testing.T) {
	items := []store.Item{
		{ID: "z", Kind: store.KindEquation, Name: "Zeta", Latex: "z", Category: "Kinematics", Popularity: 3},
		{ID: "a", Kind: store.KindEquation, Name: "Alpha", Latex: "a", Category: "Kinematics", Popularity: 3},
		{ID: "p", Kind: store.KindEquation, Name: "Pi", Latex: "p", Category: "Kinematics", Popularity: 8},
		{ID: "r", Kind: store.KindEquation, Name: "Rho", Latex: "r", Category: "Kinematics", Rank: fp(1)},
	}

	res := Rank(items, EmptyView(), Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()})

	ids := make([]string, len(res.Ranked))
	for i, s := range res.Ranked {
		ids[i] = s.ID
	}
	// Ranked item first, then popularity desc, then name asc.
	want := []string{"r", "p", "a", "z"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestRankEmptyQueryNeutrality(t *testing.T) {
	// Equal usage/popularity/rank: the no-query score is identical, so
	// order falls to the browsing policy (name), not score noise.
	items := []store.Item{
		{ID: "b", Kind: store.KindEquation, Name: "Bravo", Latex: "b", Category: "Kinematics"},
		{ID: "a", Kind: store.KindEquation, Name: "Alpha", Latex: "a", Category: "Kinematics"},
	}
	res := Rank(items, EmptyView(), Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()})

	if res.Ranked[0].Score != res.Ranked[1].Score {
		t.Errorf("scores differ without signals: %v vs %v", res.Ranked[0].Score, res.Ranked[1].Score)
	}
	if res.Ranked[0].ID != "a" {
		t.Errorf("top = %s, want a (name order)", res.Ranked[0].ID)
	}
}

func TestRankQueryOrderIsScoreDescending(t *testing.T) {
	now := time.Now()
	items := matchFixture()
	v := viewWith("g", 5, now)

	res := Rank(items, v, Request{Query: "velocity", Mode: prefs.ModePopularityFirst, HalfLifeDays: 30, Now: now})
	for i := 1; i < len(res.Ranked); i++ {
		if res.Ranked[i].Score > res.Ranked[i-1].Score {
			t.Errorf("flat order not score-descending at %d", i)
		}
	}
}

func TestRankCategoryFilter(t *testing.T) {
	items := matchFixture()
	req := Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()}

	full := Rank(items, EmptyView(), req)

	req.Category = "Constants"
	filtered := Rank(items, EmptyView(), req)

	var wantIDs []string
	for _, s := range full.Ranked {
		if s.Category == "Constants" {
			wantIDs = append(wantIDs, s.ID)
		}
	}
	var gotIDs []string
	for _, s := range filtered.Ranked {
		gotIDs = append(gotIDs, s.ID)
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("filtered ids = %v, want %v", gotIDs, wantIDs)
	}
	for _, sec := range filtered.Sections {
		if sec.Category != "Constants" {
			t.Errorf("unexpected section %q after filter", sec.Category)
		}
	}
}

func TestRankUncategorizedBucket(t *testing.T) {
	items := []store.Item{
		{ID: "x", Kind: store.KindEquation, Name: "Orphan", Latex: "x"},
	}
	res := Rank(items, EmptyView(), Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()})
	if len(res.Sections) != 1 || res.Sections[0].Category != "Uncategorized" {
		t.Errorf("expected Uncategorized section, got %+v", res.Sections)
	}
}

func TestRankSectionOrderExplicit(t *testing.T) {
	items := []store.Item{
		{ID: "c", Kind: store.KindConstant, Name: "C", Value: "1", Category: "Constants"},
		{ID: "k", Kind: store.KindEquation, Name: "K", Latex: "k", Category: "Kinematics"},
		{ID: "d", Kind: store.KindEquation, Name: "D", Latex: "d", Category: "Dynamics"},
		{ID: "q", Kind: store.KindEquation, Name: "Q", Latex: "q", Category: "Quantum"},
	}
	res := Rank(items, EmptyView(), Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()})

	var cats []string
	for _, sec := range res.Sections {
		cats = append(cats, sec.Category)
	}
	// Table order first; unlisted categories after all listed ones.
	want := []string{"Kinematics", "Dynamics", "Constants", "Quantum"}
	if !reflect.DeepEqual(cats, want) {
		t.Errorf("section order = %v, want %v", cats, want)
	}
}

func TestRankSectionOrderPopularityFirstUsesMean(t *testing.T) {
	now := time.Now()
	// Kinematics: mixes 3.0 and 1.2, mean 2.1. Dynamics: one item, mix
	// 3.0. A sum aggregate would put Kinematics (4.2) first; the mean
	// must put Dynamics first.
	items := []store.Item{
		{ID: "k1", Kind: store.KindEquation, Name: "K1", Latex: "k", Category: "Kinematics", Popularity: 10},
		{ID: "k2", Kind: store.KindEquation, Name: "K2", Latex: "k", Category: "Kinematics", Popularity: 4},
		{ID: "d1", Kind: store.KindEquation, Name: "D1", Latex: "d", Category: "Dynamics", Popularity: 10},
	}
	res := Rank(items, EmptyView(), Request{Mode: prefs.ModePopularityFirst, HalfLifeDays: 30, Now: now})

	if res.Sections[0].Category != "Dynamics" {
		t.Errorf("first section = %q, want Dynamics (mean 3.0 > mean 2.1)", res.Sections[0].Category)
	}
}

func TestTopResult(t *testing.T) {
	res := Rank(constantsFixture(), EmptyView(), Request{Mode: prefs.ModeExplicitOrder, HalfLifeDays: 30, Now: time.Now()})
	top := res.TopResult()
	if top == nil || top.ID != "g" {
		t.Errorf("top result = %v, want g", top)
	}

	empty := Rank(nil, EmptyView(), Request{Now: time.Now()})
	if empty.TopResult() != nil {
		t.Error("expected nil top result for empty collection")
	}
}

func TestCategoriesPinned(t *testing.T) {
	items := []store.Item{
		{ID: "k", Category: "Kinematics"},
		{ID: "c", Category: "Constants"},
		{ID: "d", Category: "Dynamics"},
		{ID: "x"},
	}
	got := Categories(items)
	want := []string{"All", "Constants", "Kinematics", "Dynamics", "Uncategorized"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}
