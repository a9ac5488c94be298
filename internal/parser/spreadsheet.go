package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetTokenizer reads xlsx/xls/xlsm workbooks. Every cell is
// serialized to its display string; dates and numbers come back the way the
// sheet renders them.
type SpreadsheetTokenizer struct {
	sheetName string
}

// NewSpreadsheetTokenizer creates a workbook tokenizer. An empty sheetName
// selects the first sheet.
func NewSpreadsheetTokenizer(sheetName string) *SpreadsheetTokenizer {
	return &SpreadsheetTokenizer{sheetName: sheetName}
}

// Tokenize reads the selected worksheet into a RawTable. Rows that are
// entirely blank are dropped here so that the first surviving row is always
// the header row.
func (t *SpreadsheetTokenizer) Tokenize(content []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	sheet := sheets[0]
	if t.sheetName != "" {
		found := false
		for _, s := range sheets {
			if s == t.sheetName {
				sheet = s
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, t.sheetName)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}

	var kept [][]string
	for _, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 || len(kept[0]) == 0 {
		return nil, ErrEmptyInput
	}

	return &RawTable{
		Headers: kept[0],
		Rows:    kept[1:],
	}, nil
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
