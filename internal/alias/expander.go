package alias

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Expand derives normalized search variations from a group's aliases and
// canonical name. Each non-empty input contributes two variations: the
// case-folded, trimmed string, and the same string with punctuation and
// symbol runes removed. The result is deduplicated and sorted so batching
// downstream is deterministic for identical inputs.
func Expand(aliases []string, name string) []string {
	inputs := make([]string, 0, len(aliases)+1)
	inputs = append(inputs, aliases...)
	if name != "" {
		inputs = append(inputs, name)
	}
	if len(inputs) == 0 {
		return nil
	}

	// Casers are stateful and not safe for concurrent use.
	folder := cases.Fold()

	seen := make(map[string]struct{}, len(inputs)*2)
	for _, raw := range inputs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lowered := strings.TrimSpace(folder.String(raw))
		addVariation(seen, lowered)
		addVariation(seen, stripPunctuation(lowered))
	}

	variations := make([]string, 0, len(seen))
	for v := range seen {
		variations = append(variations, v)
	}
	sort.Strings(variations)
	return variations
}

func addVariation(seen map[string]struct{}, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	seen[v] = struct{}{}
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
