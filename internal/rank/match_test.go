package rank

import (
	"testing"

	"github.com/physref/quicksheet/internal/store"
)

func matchFixture() []store.Item {
	return []store.Item{
		{ID: "v1", Kind: store.KindEquation, Name: "Velocity", Symbol: "v",
			Text: "rate of change of position", Tags: []string{"kinematics", "motion"}, Category: "Kinematics"},
		{ID: "ke", Kind: store.KindEquation, Name: "Kinetic energy", Symbol: "E_k",
			Latex: "E_k = \\frac{1}{2} m v^2", Tags: []string{"energy"}, Category: "Work & Energy"},
		{ID: "g", Kind: store.KindConstant, Name: "Standard gravity", Symbol: "g",
			Value: "9.80665", Units: "m s^-2", Tags: []string{"velocity", "acceleration"}, Category: "Constants"},
	}
}

func TestMatchEmptyQueryKeepsAll(t *testing.T) {
	items := matchFixture()

	for _, q := range []string{"", "   ", "\t"} {
		got := Match(items, q)
		if len(got) != len(items) {
			t.Fatalf("query %q: got %d candidates, want %d", q, len(got), len(items))
		}
		for _, c := range got {
			if c.Matched {
				t.Errorf("query %q: candidate %s should carry the no-relevance sentinel", q, c.Item.ID)
			}
		}
	}
}

func TestMatchExactName(t *testing.T) {
	got := Match(matchFixture(), "Velocity")
	if len(got) == 0 {
		t.Fatal("expected matches for exact name")
	}
	if got[0].Item.ID != "v1" {
		t.Errorf("top match = %s, want v1", got[0].Item.ID)
	}
	if got[0].Distance != 0 {
		t.Errorf("exact name distance = %v, want 0", got[0].Distance)
	}
	if !got[0].Matched {
		t.Error("exact match should be flagged Matched")
	}
}

func TestMatchNameBeatsTag(t *testing.T) {
	// "velocity" is v1's name and g's tag; the name field weighs more.
	got := Match(matchFixture(), "velocity")
	if len(got) < 2 {
		t.Fatalf("expected both name and tag matches, got %d", len(got))
	}
	if got[0].Item.ID != "v1" || got[1].Item.ID != "g" {
		t.Errorf("order = [%s %s], want [v1 g]", got[0].Item.ID, got[1].Item.ID)
	}
	if got[0].Distance >= got[1].Distance {
		t.Errorf("name match distance %v should beat tag match distance %v", got[0].Distance, got[1].Distance)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	got := Match(matchFixture(), "VELOCITY")
	if len(got) == 0 || got[0].Item.ID != "v1" {
		t.Fatal("expected case-insensitive name match for v1")
	}
}

func TestMatchSubstring(t *testing.T) {
	got := Match(matchFixture(), "kinetic")
	if len(got) == 0 || got[0].Item.ID != "ke" {
		t.Fatal("expected substring match on Kinetic energy")
	}
	if got[0].Distance > MatchThreshold {
		t.Errorf("substring match distance %v exceeds threshold", got[0].Distance)
	}
}

func TestMatchTypo(t *testing.T) {
	items := append(matchFixture(), store.Item{
		ID: "kb", Kind: store.KindConstant, Name: "Boltzmann constant",
		Symbol: "k_B", Value: "1.380649e-23", Category: "Constants",
	})

	cases := []struct {
		query string
		want  string
	}{
		{"velocty", "v1"},       // dropped letter mid-word
		{"kinetc energy", "ke"}, // dropped letter in a two-word query
		{"boltzman", "kb"},      // dropped trailing letter
	}

	for _, tc := range cases {
		got := Match(items, tc.query)
		found := false
		for _, c := range got {
			if c.Item.ID == tc.want {
				found = true
				if c.Distance > MatchThreshold {
					t.Errorf("query %q: accepted %s at distance %v above threshold", tc.query, tc.want, c.Distance)
				}
			}
		}
		if !found {
			t.Errorf("query %q: expected one-char typo to survive the fuzzy threshold", tc.query)
		}
	}
}

func TestMatchScatteredSubsequenceRejected(t *testing.T) {
	// Every letter of "nrg" occurs in order inside "Kinetic energy",
	// but spread too thin to count as a match.
	got := Match(matchFixture(), "nrg")
	for _, c := range got {
		if c.Item.ID == "ke" {
			t.Errorf("scattered subsequence accepted at distance %v", c.Distance)
		}
	}
}

func TestMatchExcludesUnrelated(t *testing.T) {
	got := Match(matchFixture(), "xylophone quartet")
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestMatchDistanceBounds(t *testing.T) {
	for _, q := range []string{"velocity", "energy", "grav", "motion"} {
		for _, c := range Match(matchFixture(), q) {
			if c.Distance < 0 || c.Distance > 1 {
				t.Errorf("query %q: distance %v out of [0,1] for %s", q, c.Distance, c.Item.ID)
			}
			if c.Distance > MatchThreshold {
				t.Errorf("query %q: accepted distance %v above threshold for %s", q, c.Distance, c.Item.ID)
			}
		}
	}
}
