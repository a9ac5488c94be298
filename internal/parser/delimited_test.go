package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
	}{
		{
			name:     "semicolon file",
			input:    "a;b;c\n1;2;3\n",
			expected: ';',
		},
		{
			name:     "comma file",
			input:    "a,b,c\n1,2,3\n",
			expected: ',',
		},
		{
			name:     "tie resolves to semicolon",
			input:    "a,b;c\n",
			expected: ';',
		},
		{
			name:     "delimiters inside quotes do not count",
			input:    `"a,b,c,d";x` + "\n",
			expected: ';',
		},
		{
			name:     "no delimiter at all defaults to semicolon",
			input:    "naglowek\nwartosc\n",
			expected: ';',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectDelimiter(tt.input))
		})
	}
}

func TestDelimitedTokenizer(t *testing.T) {
	tok := NewDelimitedTokenizer()

	t.Run("splits header and data rows", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr lokalu;Cena\nA1;450000\nA2;500000\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Nr lokalu", "Cena"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"A1", "450000"}, table.Rows[0])
	})

	t.Run("strips a UTF-8 BOM", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("\uFEFFNr lokalu;Cena\nA1;1\n"))
		require.NoError(t, err)
		assert.Equal(t, "Nr lokalu", table.Headers[0])
	})

	t.Run("quoted field keeps the delimiter and newline", func(t *testing.T) {
		input := "Nr;Uwagi\nA1;\"pietro 2,\nklatka B\"\n"
		table, err := tok.Tokenize([]byte(input))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "pietro 2,\nklatka B", table.Rows[0][1])
	})

	t.Run("doubled quote is a literal quote", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr;Opis\nA1;\"tzw. \"\"kawalerka\"\"\"\n"))
		require.NoError(t, err)
		assert.Equal(t, `tzw. "kawalerka"`, table.Rows[0][1])
	})

	t.Run("unquoted fields are trimmed, quoted fields are not", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr;Opis\n  A1  ;\" spacja \"\n"))
		require.NoError(t, err)
		assert.Equal(t, "A1", table.Rows[0][0])
		assert.Equal(t, " spacja ", table.Rows[0][1])
	})

	t.Run("stray blank lines between rows are dropped", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr;Cena\nA1;1\n\n\nA2;2\n"))
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
	})

	t.Run("windows line endings", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr;Cena\r\nA1;1\r\nA2;2\r\n"))
		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"A2", "2"}, table.Rows[1])
	})

	t.Run("empty input is a structural error", func(t *testing.T) {
		_, err := tok.Tokenize([]byte(""))
		assert.ErrorIs(t, err, ErrEmptyInput)

		_, err = tok.Tokenize([]byte("   \n\n  "))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("no trailing newline still flushes the last record", func(t *testing.T) {
		table, err := tok.Tokenize([]byte("Nr;Cena\nA1;450000"))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "450000", table.Rows[0][1])
	})

	t.Run("large input stays intact", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("Nr;Cena\n")
		for i := 0; i < 1000; i++ {
			b.WriteString("A;1\n")
		}
		table, err := tok.Tokenize([]byte(b.String()))
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1000)
	})
}
