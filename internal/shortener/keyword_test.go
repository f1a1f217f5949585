package shortener_test

import (
	"testing"

	"github.com/serroba/linkmark/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestParseKeywordNames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "splits on spaces",
			input:    "go web tools",
			expected: []string{"go", "web", "tools"},
		},
		{
			name:     "splits on mixed separators",
			input:    "a, b;;c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "collapses separator runs",
			input:    "go,,  ;web",
			expected: []string{"go", "web"},
		},
		{
			name:     "lowercases names",
			input:    "Go WEB",
			expected: []string{"go", "web"},
		},
		{
			name:     "deduplicates preserving first occurrence",
			input:    "go web Go",
			expected: []string{"go", "web"},
		},
		{
			name:     "handles tabs and newlines",
			input:    "go\tweb\ntools",
			expected: []string{"go", "web", "tools"},
		},
		{
			name:     "empty input yields no keywords",
			input:    "",
			expected: []string{},
		},
		{
			name:     "separator-only input yields no keywords",
			input:    " ,; ,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shortener.ParseKeywordNames(tt.input))
		})
	}
}

func TestJoinKeywordNames(t *testing.T) {
	t.Run("joins with spaces", func(t *testing.T) {
		keywords := []shortener.Keyword{{Name: "go"}, {Name: "web"}}

		assert.Equal(t, "go web", shortener.JoinKeywordNames(keywords))
	})

	t.Run("empty set yields empty string", func(t *testing.T) {
		assert.Equal(t, "", shortener.JoinKeywordNames(nil))
	})

	t.Run("round-trips through parse", func(t *testing.T) {
		names := shortener.ParseKeywordNames("go, web; tools")

		keywords := make([]shortener.Keyword, len(names))
		for i, n := range names {
			keywords[i] = shortener.Keyword{Name: n}
		}

		assert.Equal(t, names, shortener.ParseKeywordNames(shortener.JoinKeywordNames(keywords)))
	})
}
