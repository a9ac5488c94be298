package parser

import "errors"

// Structural errors abort a parse with no partial result.
var (
	// ErrEmptyInput means the source yielded no header row at all.
	ErrEmptyInput = errors.New("input contains no rows")
	// ErrSheetNotFound means the requested worksheet does not exist.
	ErrSheetNotFound = errors.New("worksheet not found")
	// ErrUnreadableWorkbook means the binary blob is not a readable workbook.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
)

// RawTable is the tokenized input: one header row and the data rows below it,
// all as strings. Immutable after tokenization.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Tokenizer turns raw file content into a RawTable. Implementations must not
// retain the content slice.
type Tokenizer interface {
	Tokenize(content []byte) (*RawTable, error)
}
