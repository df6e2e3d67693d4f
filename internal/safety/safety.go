// Package safety implements the explicit-content heuristic applied to
// watch history records before they enter the generation context and to
// resolved metadata at read time.
package safety

import "strings"

// adultKeywords is deliberately narrow: false negatives are acceptable,
// false positives suppress legitimate history signal.
var adultKeywords = []string{
	"porn",
	"porno",
	"xxx",
	"adult",
	"erotic",
	"erotica",
	"hentai",
}

// ContainsAdultKeyword reports whether any explicit-content keyword
// appears in the given free-text fields. List-valued fields should be
// passed space-joined. The match is a case-insensitive substring test.
func ContainsAdultKeyword(fields ...string) bool {
	combined := strings.ToLower(strings.Join(fields, " "))
	for _, keyword := range adultKeywords {
		if strings.Contains(combined, keyword) {
			return true
		}
	}
	return false
}
