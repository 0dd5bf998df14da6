package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps a plain name",
			input:    "export_all_20240101_120000.csv",
			expected: "export_all_20240101_120000.csv",
		},
		{
			name:     "drops unix directories",
			input:    "../../etc/passwd",
			expected: "passwd",
		},
		{
			name:     "drops windows directories",
			input:    `C:\Users\me\budget.zip`,
			expected: "budget.zip",
		},
		{
			name:     "removes invalid characters",
			input:    `bud<>:"|?*get.json`,
			expected: "budget.json",
		},
		{
			name:     "collapses whitespace",
			input:    "my   budget\tbackup.db",
			expected: "my budget backup.db",
		},
		{
			name:     "hidden files lose their leading dot",
			input:    ".budget.db",
			expected: "budget.db",
		},
		{
			name:     "empty becomes upload",
			input:    "",
			expected: "upload",
		},
		{
			name:     "parent reference becomes upload",
			input:    "..",
			expected: "upload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_LongNameKeepsExtension(t *testing.T) {
	result := SanitizeFilename(strings.Repeat("a", 300) + ".json")

	assert.LessOrEqual(t, len(result), 200)
	assert.True(t, strings.HasSuffix(result, ".json"))
}
