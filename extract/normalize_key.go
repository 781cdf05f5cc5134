package extract

import (
	"sort"
	"strings"
	"unicode"
)

// NormalizeKey derives the matching key for a label: lowercase, punctuation
// collapsed to spaces, whitespace collapsed, tokens sorted. Token sorting
// makes "sugar, brown" and "brown sugar" collide, which is what the exact
// matcher wants; the fuzzy matcher then only has to absorb typos.
func NormalizeKey(label string) string {
	lowered := strings.ToLower(label)

	var sb strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	tokens := strings.Fields(sb.String())
	if len(tokens) == 0 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
