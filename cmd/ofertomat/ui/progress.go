package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// Spinner wraps an indeterminate spinner for operations without a
// known total, such as tokenizing a workbook.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given suffix message. The
// spinner writes to stderr so piped stdout stays clean.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

func (sp *Spinner) Start() { sp.s.Start() }
func (sp *Spinner) Stop()  { sp.s.Stop() }

// NewBar creates a determinate progress bar for row-count work such as
// persisting parsed records.
func NewBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
