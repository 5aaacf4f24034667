package utils

import (
	"strings"
)

// RupeeSymbol is drawn in front of every card price
const RupeeSymbol = "₹"

// FormatINR formats a price override for display, like "₹1,25,000".
// Pure integer input uses Indian digit grouping (last three digits, then pairs);
// anything else is kept verbatim after trimming. A leading symbol is not doubled.
// Empty input returns "".
func FormatINR(price string) string {
	price = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(price), RupeeSymbol))
	if price == "" {
		return ""
	}
	if !digitsOnlyRegex.MatchString(price) {
		return RupeeSymbol + price
	}

	s := strings.TrimLeft(price, "0")
	if s == "" {
		s = "0"
	}
	if len(s) <= 3 {
		return RupeeSymbol + s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	// Pre-allocate: digits + separators + symbol
	b.Grow(len(s) + len(s)/2 + len(RupeeSymbol))
	b.WriteString(RupeeSymbol)

	rem := len(head) % 2
	if rem == 0 {
		rem = 2
	}
	b.WriteString(head[:rem])
	for i := rem; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)

	return b.String()
}
