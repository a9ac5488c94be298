package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Engine is the property-file parsing engine. It is stateless: every Parse
// call owns its accounting and the engine retains nothing afterwards, so a
// single Engine is safe for concurrent use.
type Engine struct{}

// NewEngine creates a parsing engine.
func NewEngine() *Engine {
	return &Engine{}
}

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xlsm": true,
}

// Parse ingests one uploaded file: raw bytes plus the original filename and
// an optional worksheet name. The extension picks the tokenizer; everything
// after tokenization is shared. The returned error is non-nil only for
// structural failures, every other outcome is data on the result.
func (e *Engine) Parse(content []byte, filename, sheetName string) (*ParseResult, error) {
	var tokenizer Tokenizer
	if spreadsheetExtensions[strings.ToLower(filepath.Ext(filename))] {
		tokenizer = NewSpreadsheetTokenizer(sheetName)
	} else {
		tokenizer = NewDelimitedTokenizer()
	}
	return e.parse(tokenizer, content)
}

func (e *Engine) parse(tokenizer Tokenizer, content []byte) (*ParseResult, error) {
	table, err := tokenizer.Tokenize(content)
	if err != nil {
		return &ParseResult{
			Success: false,
			Errors:  []string{fmt.Sprintf("unreadable source: %v", err)},
		}, err
	}

	result := &ParseResult{
		TotalRows: len(table.Rows),
	}

	format, formatConfidence, formatDetails := DetectFormat(table.Headers)
	result.DetectedFormat = format
	result.FormatConfidence = formatConfidence
	result.FormatDetails = formatDetails

	mapping := MapColumns(table.Headers)
	result.Mappings = mapping.Mapping.Columns
	result.Alternates = mapping.Mapping.Alternates
	result.Suggestions = mapping.Suggestions
	result.Confidence = mapping.Mapping.Confidence

	if len(mapping.Mapping.Columns) < minMappedFields {
		result.Success = false
		sort.Strings(mapping.Unmapped)
		for _, field := range mapping.Unmapped {
			result.Errors = append(result.Errors, fmt.Sprintf("unmapped field: %s", field))
		}
		result.Errors = append(result.Errors, fmt.Sprintf(
			"only %d of the required %d fields could be mapped",
			len(mapping.Mapping.Columns), minMappedFields))
	} else {
		result.Success = true
	}

	ex := newExtractor(table, mapping.Mapping.Columns, format)
	ex.extractRows(table.Rows)

	for i := range ex.records {
		DeriveFields(&ex.records[i])
	}

	result.Data = ex.records
	result.ValidationStats = ex.stats
	result.ValidRows = ex.validRows

	if skipped := result.TotalRows - ex.stats.SuccessfullyParsed; skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d of %d rows were skipped", skipped, result.TotalRows))
	}

	return result, nil
}
