// Package clip renders items as copy-ready text. Each preset is a
// deterministic pure formatter; the toggles gate which fields appear.
package clip

import (
	"fmt"
	"strings"

	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/store"
)

// Build renders the copy text for an item under the given preferences.
// Unknown presets fall back to the bare name.
func Build(i store.Item, p prefs.Prefs) string {
	t := p.CopyToggles

	var name, sym, text, cat, src string
	if t.IncludeName {
		name = i.Name
	}
	if t.IncludeSymbol {
		sym = i.Symbol
	}
	if t.IncludeText {
		text = i.Text
	}
	if t.IncludeCategory {
		cat = i.Category
	}
	if t.IncludeSource {
		src = i.Source
	}

	nameWithSym := name
	if sym != "" {
		if name != "" {
			nameWithSym = fmt.Sprintf("%s (%s)", name, sym)
		} else {
			nameWithSym = sym
		}
	}

	switch p.CopyPreset {
	case prefs.PresetPlainCompact:
		return plainCompact(i, t, nameWithSym, text, cat, src)
	case prefs.PresetPlainVerbose:
		return plainVerbose(i, t, nameWithSym, text, cat, src)
	case prefs.PresetLatexInline, prefs.PresetLatexInlineSymbol:
		return latexInline(i, p, t, name, text)
	case prefs.PresetMarkdownInline:
		return markdownInline(i, t, name, cat, src)
	case prefs.PresetMarkdownFenced:
		return markdownFenced(i, t, nameWithSym, text, cat, src)
	}

	return i.Name
}

func plainCompact(i store.Item, t prefs.CopyToggles, nameWithSym, text, cat, src string) string {
	var pieces []string

	if i.Kind == store.KindConstant {
		lhs := strings.TrimSpace(nameWithSym)
		units := ""
		if t.IncludeUnits && i.Units != "" {
			units = " " + i.Units
		}
		switch {
		case i.Value != "" && lhs != "":
			pieces = append(pieces, fmt.Sprintf("%s = %s%s", lhs, i.Value, units))
		case i.Value != "":
			pieces = append(pieces, i.Value+units)
		case lhs != "":
			pieces = append(pieces, lhs)
		}
	} else {
		eq := i.Latex
		if eq == "" {
			eq = i.Text
		}
		lhs := strings.TrimSpace(nameWithSym)
		switch {
		case lhs != "" && eq != "":
			pieces = append(pieces, fmt.Sprintf("%s: %s", lhs, eq))
		case eq != "":
			pieces = append(pieces, eq)
		default:
			pieces = append(pieces, lhs)
		}
	}

	if text != "" && text != i.Latex {
		pieces = append(pieces, "– "+text)
	}
	if cat != "" || src != "" {
		pieces = append(pieces, comment(joinMeta(cat, src)))
	}
	return strings.Join(compact(pieces), " ")
}

func plainVerbose(i store.Item, t prefs.CopyToggles, nameWithSym, text, cat, src string) string {
	var pieces []string
	lhs := strings.TrimSpace(nameWithSym)

	if i.Kind == store.KindConstant {
		units := ""
		if t.IncludeUnits && i.Units != "" {
			units = " " + i.Units
		}
		switch {
		case i.Value != "" && lhs != "":
			pieces = append(pieces, fmt.Sprintf("%s = %s%s", lhs, i.Value, units))
		case i.Value != "":
			pieces = append(pieces, i.Value+units)
		case lhs != "":
			pieces = append(pieces, lhs)
		}
		if text != "" {
			pieces = append(pieces, "Note: "+text)
		}
	} else {
		switch {
		case i.Latex != "" && lhs != "":
			pieces = append(pieces, fmt.Sprintf("%s: %s", lhs, i.Latex))
		case i.Latex != "":
			pieces = append(pieces, i.Latex)
		case i.Text != "" && lhs != "":
			pieces = append(pieces, fmt.Sprintf("%s: %s", lhs, i.Text))
		case i.Text != "":
			pieces = append(pieces, i.Text)
		case lhs != "":
			pieces = append(pieces, lhs)
		}
	}

	if cat != "" || src != "" {
		pieces = append(pieces, comment(joinMeta(cat, src)))
	}
	return strings.Join(compact(pieces), "\n")
}

func latexInline(i store.Item, p prefs.Prefs, t prefs.CopyToggles, name, text string) string {
	var pieces []string

	lhs := strings.TrimSpace(firstNonEmpty(name, i.Symbol))
	if p.CopyPreset == prefs.PresetLatexInlineSymbol && i.Symbol != "" {
		lhs = i.Symbol
	}

	if i.Kind == store.KindConstant {
		units := ""
		if t.IncludeUnits && i.Units != "" {
			units = fmt.Sprintf("\\,\\text{%s}", i.Units)
		}
		if i.Value != "" {
			eq := i.Value + units
			if lhs != "" {
				eq = fmt.Sprintf("%s = %s", lhs, eq)
			}
			pieces = append(pieces, eq)
		} else {
			pieces = append(pieces, lhs)
		}
	} else {
		pieces = append(pieces, firstNonEmpty(i.Latex, i.Text, lhs))
	}

	if text != "" {
		pieces = append(pieces, comment(text))
	}
	return strings.Join(compact(pieces), " ")
}

func markdownInline(i store.Item, t prefs.CopyToggles, name, cat, src string) string {
	title := firstNonEmpty(name, i.Symbol)

	var base string
	if i.Kind == store.KindConstant {
		base = fmt.Sprintf("**%s**", title)
		if i.Value != "" {
			base += fmt.Sprintf(" = `%s`", i.Value)
		}
		if t.IncludeUnits && i.Units != "" {
			base += " " + i.Units
		}
	} else {
		base = fmt.Sprintf("**%s**", title)
		if i.Latex != "" {
			base += fmt.Sprintf(": `$%s$`", i.Latex)
		} else if i.Text != "" {
			base += " — " + i.Text
		}
	}

	if meta := joinMeta(cat, src); meta != "" {
		base += "\n\n> " + meta
	}
	return base
}

func markdownFenced(i store.Item, t prefs.CopyToggles, nameWithSym, text, cat, src string) string {
	head := fmt.Sprintf("**%s**", firstNonEmpty(nameWithSym, i.Symbol))
	if text != "" {
		head += " — " + text
	}

	body := ""
	if i.Latex != "" {
		body = fmt.Sprintf("\n\n```tex\n%s\n```", i.Latex)
	} else if i.Value != "" {
		body = fmt.Sprintf("\n\n`%s`", i.Value)
		if t.IncludeUnits && i.Units != "" {
			body += " " + i.Units
		}
	}

	out := head + body
	if meta := joinMeta(cat, src); meta != "" {
		out += "\n\n> " + meta
	}
	return out
}

// FormatItem renders an item for terminal or log display.
func FormatItem(i store.Item, latex bool) string {
	if i.Kind == store.KindConstant {
		if latex {
			lhs := firstNonEmpty(i.Symbol, i.Name)
			return strings.TrimSpace(fmt.Sprintf("%s = %s %s", lhs, i.Value, i.Units))
		}
		s := i.Name
		if i.Symbol != "" {
			s += fmt.Sprintf(" (%s)", i.Symbol)
		}
		if i.Value != "" {
			s += " = " + i.Value
		}
		if i.Units != "" {
			s += " " + i.Units
		}
		return s
	}

	if latex {
		return firstNonEmpty(i.Latex, i.Text, i.Name)
	}
	s := i.Name
	if i.Latex != "" {
		s += ": " + i.Latex
	}
	if i.Text != "" {
		s += " — " + i.Text
	}
	return s
}

// ToMarkdown renders an item as a standalone markdown fragment.
func ToMarkdown(i store.Item) string {
	if i.Kind == store.KindConstant {
		s := fmt.Sprintf("**%s**", i.Name)
		if i.Symbol != "" {
			s += fmt.Sprintf(" (%s)", i.Symbol)
		}
		s += fmt.Sprintf(": `%s`", i.Value)
		if i.Units != "" {
			s += " " + i.Units
		}
		return strings.TrimSpace(s)
	}
	s := fmt.Sprintf("**%s**", i.Name)
	if i.Text != "" {
		s += " — " + i.Text
	}
	if i.Latex != "" {
		s += fmt.Sprintf("\n\n```tex\n%s\n```", i.Latex)
	}
	return s
}

func comment(s string) string {
	if s == "" {
		return ""
	}
	return "/* " + s + " */"
}

func joinMeta(parts ...string) string {
	return strings.Join(compact(parts), " | ")
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
