package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	style := textStyle{Size: 20} // 10 units per rune
	m := fakeMeasurer{}

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		expected []string
	}{
		{"empty", "", 100, nil},
		{"whitespace only", "   ", 100, nil},
		{"fits on one line", "AAAA BBBB", 100, []string{"AAAA BBBB"}},
		{"greedy break", "AAAA BBBB CCCC", 100, []string{"AAAA BBBB", "CCCC"}},
		{"exact width breaks", "AAAAA BBBB", 100, []string{"AAAAA", "BBBB"}},
		{"long word kept whole", "ABCDEFGHIJKLMNOP", 100, []string{"ABCDEFGHIJKLMNOP"}},
		{"long word between short ones", "AB ABCDEFGHIJKLMNOP CD", 100, []string{"AB", "ABCDEFGHIJKLMNOP", "CD"}},
		{"collapses spaces", "  AA   BB  ", 100, []string{"AA BB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wrapText(m, tt.text, style, tt.maxWidth))
		})
	}
}

func TestWrapTextZeroWidthTerminates(t *testing.T) {
	lines := wrapText(fakeMeasurer{}, "A B C", textStyle{Size: 20}, 0)
	assert.Equal(t, []string{"A", "B", "C"}, lines)
}

func TestFirstLines(t *testing.T) {
	lines := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, firstLines(lines, 2))
	assert.Equal(t, lines, firstLines(lines, 5))
	assert.Empty(t, firstLines(lines, -1))
}
