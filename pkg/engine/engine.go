// Package engine is the public entry point for embedding the ofertomat
// parsing engine in a host application.
package engine

import (
	"github.com/ofertomat/ofertomat/internal/compliance"
	"github.com/ofertomat/ofertomat/internal/parser"
)

// Result bundles the parse outcome with its compliance report. The two are
// orthogonal: a file can parse cleanly and still fail compliance, and vice
// versa a compliance report is produced even for a failed mapping.
type Result struct {
	Parse      *parser.ParseResult
	Compliance *compliance.Report
}

// Engine parses listing exports. Stateless and safe for concurrent use.
type Engine struct {
	inner *parser.Engine
}

// New creates an Engine.
func New() *Engine {
	return &Engine{inner: parser.NewEngine()}
}

// Parse ingests one file: raw bytes, the original filename (its extension
// selects the text or spreadsheet path) and an optional worksheet name.
// The error is non-nil only when the source is structurally unreadable.
func (e *Engine) Parse(content []byte, filename, sheetName string) (*Result, error) {
	parseResult, err := e.inner.Parse(content, filename, sheetName)
	if err != nil {
		return &Result{Parse: parseResult}, err
	}

	return &Result{
		Parse:      parseResult,
		Compliance: compliance.Score(parseResult.Data),
	}, nil
}
