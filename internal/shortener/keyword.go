package shortener

import "strings"

// keywordSeparators matches the token separators of the historical tag
// format: runs of whitespace, commas, and semicolons.
func isKeywordSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';':
		return true
	}

	return false
}

// ParseKeywordNames splits a raw freeform tag string into keyword names.
// Separators are runs of whitespace, commas, and semicolons; empty tokens are
// dropped and names are trimmed and lower-cased. The splitting rule must stay
// stable for compatibility with stored tag strings.
func ParseKeywordNames(raw string) []string {
	fields := strings.FieldsFunc(raw, isKeywordSeparator)

	names := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// JoinKeywordNames renders a keyword set back into the freeform tag format
// used by edit forms (space-separated).
func JoinKeywordNames(keywords []Keyword) string {
	names := make([]string, len(keywords))
	for i, k := range keywords {
		names[i] = k.Name
	}

	return strings.Join(names, " ")
}
