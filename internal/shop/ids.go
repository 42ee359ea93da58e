package shop

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

	idPrefixes = map[string]string{
		"towing":      "BR",
		"handling":    "RL",
		"maintenance": "MT",
		"gse":         "GSE",
	}

	idSuffixChars = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
)

// GenerateSlug derives a URL slug from a product name: lowercase, diacritics
// stripped, non-alphanumeric runs collapsed to single hyphens, no edge
// hyphens.
func GenerateSlug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	s := strings.ToLower(stripped)
	s = slugInvalidRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateID builds a product id from the category prefix plus a short
// random suffix, e.g. "BR-X4K9".
func GenerateID(category string) string {
	prefix, ok := idPrefixes[category]
	if !ok {
		prefix = "PRD"
	}
	suffix := make([]rune, 4)
	for i := range suffix {
		suffix[i] = idSuffixChars[rand.Intn(len(idSuffixChars))]
	}
	return prefix + "-" + string(suffix)
}
