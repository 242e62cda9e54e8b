package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestName(t *testing.T) {
	candidates := []string{"exact_match", "quasi_exact_match", "inference_runtime", "alghafa"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single character typo",
			input: "exact_matck",
			want:  "exact_match",
		},
		{
			name:  "case difference only",
			input: "Exact_Match",
			want:  "exact_match",
		},
		{
			name:  "missing character",
			input: "alghaf",
			want:  "alghafa",
		},
		{
			name:  "nothing close",
			input: "zzzzzz",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestName(tt.input, candidates), "Suggestion mismatch")
		})
	}
}

func TestSuggestNameNoCandidates(t *testing.T) {
	assert.Empty(t, SuggestName("anything", nil))
	assert.Empty(t, SuggestName("anything", []string{}))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("same", "same"))
	assert.Equal(t, 1.0, similarity("", ""))
	assert.InDelta(t, 0.8, similarity("abcde", "abcdX"), 1e-9, "One edit over five runes")
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
}
