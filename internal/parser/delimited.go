package parser

import (
	"strings"
)

// DelimitedTokenizer parses delimited UTF-8 text (CSV with comma or
// semicolon). The delimiter is detected by sampling the input; fields follow
// RFC 4180 quoting, so a quoted field may contain the delimiter and embedded
// newlines.
type DelimitedTokenizer struct{}

// NewDelimitedTokenizer creates a tokenizer for delimited text content.
func NewDelimitedTokenizer() *DelimitedTokenizer {
	return &DelimitedTokenizer{}
}

// Tokenize splits the content into a header row and data rows.
func (t *DelimitedTokenizer) Tokenize(content []byte) (*RawTable, error) {
	text := stripBOM(string(content))
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	delim := detectDelimiter(text)
	records := splitRecords(text, delim)
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmptyInput
	}

	return &RawTable{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}

// stripBOM removes a leading UTF-8 byte order mark, a fixture of Excel CSV
// exports.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

const delimiterSampleLines = 10

// detectDelimiter samples the first few non-empty lines and counts commas
// versus semicolons outside quoted spans. Ties resolve to semicolon, the
// dominant convention in Polish exports.
func detectDelimiter(text string) rune {
	commas, semicolons := 0, 0
	sampled := 0

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		inQuotes := false
		for _, r := range line {
			switch r {
			case '"':
				inQuotes = !inQuotes
			case ',':
				if !inQuotes {
					commas++
				}
			case ';':
				if !inQuotes {
					semicolons++
				}
			}
		}
		sampled++
		if sampled >= delimiterSampleLines {
			break
		}
	}

	if commas > semicolons {
		return ','
	}
	return ';'
}

// splitRecords walks the text character by character, honoring RFC 4180
// quoting: a doubled quote inside a quoted span is a literal quote, and row
// breaks inside quotes do not terminate the record. Unquoted fields are
// trimmed; quoted fields keep their whitespace.
func splitRecords(text string, delim rune) [][]string {
	var (
		records [][]string
		current []string
		field   strings.Builder
		quoted  bool // the field being built started with a quote
		inQuote bool
	)

	runes := []rune(text)

	flushField := func() {
		value := field.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		current = append(current, value)
		field.Reset()
		quoted = false
	}

	flushRecord := func() {
		flushField()
		// A record of nothing but one empty unquoted field is a stray
		// newline, not a data row.
		if len(current) == 1 && current[0] == "" {
			current = nil
			return
		}
		records = append(records, current)
		current = nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuote {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"') // escaped literal quote
					i++
				} else {
					inQuote = false
				}
			} else if strings.TrimSpace(field.String()) == "" && !quoted {
				// Opening quote: discard any leading whitespace.
				field.Reset()
				quoted = true
				inQuote = true
			} else {
				field.WriteRune(r)
			}
		case r == delim && !inQuote:
			flushField()
		case r == '\r' && !inQuote:
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			flushRecord()
		case r == '\n' && !inQuote:
			flushRecord()
		default:
			field.WriteRune(r)
		}
	}

	if field.Len() > 0 || quoted || len(current) > 0 {
		flushRecord()
	}

	return records
}
