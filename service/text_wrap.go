package service

import "strings"

// textStyle identifies a font variant at a logical pixel size
type textStyle struct {
	Size float64
	Bold bool
}

// TextMeasurer returns the advance width of text in logical units
type TextMeasurer interface {
	Measure(text string, style textStyle) float64
}

// wrapText splits text into lines no wider than maxWidth using greedy word fill.
// A single word wider than maxWidth still gets its own line; the result is never
// empty for text containing at least one word.
func wrapText(m TextMeasurer, text string, style textStyle, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 2)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.Measure(candidate, style) < maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// firstLines returns at most n lines, dropping the overflow without an ellipsis
func firstLines(lines []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
