package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// polishFold maps Polish diacritics to their ASCII base letters. Headers
// arrive in every imaginable mixture of "powierzchnia użytkowa" and
// "powierzchnia uzytkowa", so comparison runs on the folded form.
var polishFold = map[rune]rune{
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n',
	'ó': 'o', 'ś': 's', 'ż': 'z', 'ź': 'z',
}

// normalizeHeader prepares a header or alias for comparison: lowercase,
// diacritics folded, unit superscripts folded to digits, punctuation
// stripped, whitespace collapsed.
func normalizeHeader(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if folded, ok := polishFold[r]; ok {
			b.WriteRune(folded)
			continue
		}
		switch r {
		case '²':
			b.WriteRune('2')
		case '³':
			b.WriteRune('3')
		default:
			if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// matchScore rates the similarity of two normalized strings in [0, 1]:
// exact match 1.0, substring containment 0.9, otherwise Levenshtein distance
// relative to the longer string.
func matchScore(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longer)
}

// levenshtein computes edit distance over runes with a two-row DP table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// parseLocaleNumber parses a numeric cell written in Polish notation:
// "12 345,67", "12.345,67" or plain "12345.67". Everything except digits,
// separators and a sign is dropped first, so currency suffixes do not matter.
func parseLocaleNumber(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}

	// With both separators present the dots are thousands grouping.
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// round2 rounds to two decimal places, the precision of the reporting feed.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
