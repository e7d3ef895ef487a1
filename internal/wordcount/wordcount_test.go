package wordcount

import (
	"strings"
	"testing"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "   \t\n  ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "simple sentence", text: "the quick brown fox", want: 4},
		{name: "leading and trailing space", text: "  draft one  ", want: 2},
		{name: "runs of whitespace collapse", text: "one\t\ttwo\n\n\nthree", want: 3},
		{name: "punctuation stays attached", text: "well, that's it.", want: 3},
		{name: "newline separated paragraphs", text: "first paragraph\n\nsecond paragraph", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCount_NeverNegative(t *testing.T) {
	inputs := []string{"", " ", "a", strings.Repeat("word ", 1000)}
	for _, in := range inputs {
		if got := Count(in); got < 0 {
			t.Errorf("Count(%q) = %d, want >= 0", in, got)
		}
	}
}
