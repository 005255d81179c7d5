// Package prefs holds user-controlled configuration for ranking and
// copy formatting. Persisted as a single JSON blob; unknown historical
// shapes are merged onto current defaults so new fields pick up their
// defaults automatically.
package prefs

import (
	"encoding/json"
	"fmt"
)

// RankingMode selects the browsing order used when no query is active.
type RankingMode string

const (
	// ModeExplicitOrder sorts by the curated rank field.
	ModeExplicitOrder RankingMode = "explicit_order"
	// ModePopularityFirst sorts by learned usage blended with popularity.
	ModePopularityFirst RankingMode = "popularity_first"
)

// CopyPreset names an output format for the copy action.
type CopyPreset string

const (
	PresetPlainCompact      CopyPreset = "plain_compact"
	PresetPlainVerbose      CopyPreset = "plain_verbose"
	PresetLatexInline       CopyPreset = "latex_inline"
	PresetLatexInlineSymbol CopyPreset = "latex_inline_symbol_first"
	PresetMarkdownInline    CopyPreset = "markdown_inline"
	PresetMarkdownFenced    CopyPreset = "markdown_fenced"
)

// CopyToggles controls which item fields the copy text includes.
type CopyToggles struct {
	IncludeUnits    bool `json:"includeUnits"`
	IncludeName     bool `json:"includeName"`
	IncludeSymbol   bool `json:"includeSymbol"`
	IncludeText     bool `json:"includeText"`
	IncludeCategory bool `json:"includeCategory"`
	IncludeSource   bool `json:"includeSource"`
}

// Prefs is the full preference set.
type Prefs struct {
	CopyPreset  CopyPreset  `json:"copyPreset"`
	CopyToggles CopyToggles `json:"copyToggles"`

	RankingMode         RankingMode `json:"rankingMode"`
	RankingHalfLifeDays float64     `json:"rankingHalfLifeDays"`

	// InstantRerankOnCopy selects live usage counters for scoring when
	// true; when false the scorer reads a frozen snapshot instead.
	InstantRerankOnCopy bool `json:"instantRerankOnCopy"`
}

// Default returns the preference defaults.
func Default() Prefs {
	return Prefs{
		CopyPreset: PresetPlainCompact,
		CopyToggles: CopyToggles{
			IncludeUnits:  true,
			IncludeName:   true,
			IncludeSymbol: true,
		},
		RankingMode:         ModeExplicitOrder,
		RankingHalfLifeDays: 30, // ~1 month
		InstantRerankOnCopy: false,
	}
}

// legacy covers fields from older persisted shapes.
type legacy struct {
	CopyMode string `json:"copyMode"`
}

// Parse merges a persisted JSON blob (any historical shape) onto
// defaults. Empty or malformed input yields defaults.
func Parse(raw string) Prefs {
	p := Default()
	if raw == "" {
		return p
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Default()
	}

	var old legacy
	if json.Unmarshal([]byte(raw), &old) == nil && old.CopyMode != "" && p.CopyPreset == Default().CopyPreset {
		switch old.CopyMode {
		case "plain":
			p.CopyPreset = PresetPlainCompact
		case "latex":
			p.CopyPreset = PresetLatexInline
		case "markdown":
			p.CopyPreset = PresetMarkdownInline
		}
	}

	return p.normalized()
}

// normalized maps legacy enum values and clamps out-of-range numbers.
func (p Prefs) normalized() Prefs {
	switch string(p.RankingMode) {
	case "rankFirst", "": // pre-rename value and zero value
		p.RankingMode = ModeExplicitOrder
	case "popularityFirst":
		p.RankingMode = ModePopularityFirst
	}
	if p.RankingMode != ModeExplicitOrder && p.RankingMode != ModePopularityFirst {
		p.RankingMode = ModeExplicitOrder
	}
	if p.CopyPreset == "" {
		p.CopyPreset = PresetPlainCompact
	}
	if p.RankingHalfLifeDays < 0 {
		p.RankingHalfLifeDays = 0
	}
	return p
}

// Encode serializes the preference set for persistence.
func (p Prefs) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode prefs: %w", err)
	}
	return string(b), nil
}

// Merge applies a partial JSON update on top of p and returns the result.
func (p Prefs) Merge(partial []byte) (Prefs, error) {
	next := p
	if err := json.Unmarshal(partial, &next); err != nil {
		return p, fmt.Errorf("merge prefs: %w", err)
	}
	return next.normalized(), nil
}
