package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ofertomat/ofertomat/cmd/ofertomat/ui"
	"github.com/ofertomat/ofertomat/internal/compliance"
	"github.com/ofertomat/ofertomat/pkg/engine"
)

var scoreSheet string

var scoreCmd = &cobra.Command{
	Use:   "score <file>...",
	Short: "Score listing exports against reporting requirements",
	Long: `score parses each file and reports its compliance score. With a
single file the full report is shown; with several files a summary table
is printed and the command fails if any file is non-compliant.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreSheet, "sheet", "", "worksheet name for spreadsheet files")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	eng := engine.New()

	type outcome struct {
		file   string
		result *engine.Result
		err    error
	}
	outcomes := make([]outcome, 0, len(args))

	bar := ui.NewBar(int64(len(args)), "scoring")
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			outcomes = append(outcomes, outcome{file: path, err: err})
			_ = bar.Add(1)
			continue
		}
		result, err := eng.Parse(content, filepath.Base(path), scoreSheet)
		outcomes = append(outcomes, outcome{file: path, result: result, err: err})
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(outcomes) == 1 {
		o := outcomes[0]
		if o.err != nil {
			return fmt.Errorf("scoring %s: %w", o.file, o.err)
		}
		printComplianceReport(o.result.Compliance)
		if !o.result.Compliance.Valid {
			return fmt.Errorf("%s is not compliant", o.file)
		}
		return nil
	}

	rows := make([][]string, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		name := filepath.Base(o.file)
		switch {
		case o.err != nil:
			rows = append(rows, []string{name, "-", "unreadable", o.err.Error()})
			failed++
		case o.result.Compliance.Valid:
			rows = append(rows, []string{name, strconv.Itoa(o.result.Compliance.Score), "ok", ""})
		default:
			rows = append(rows, []string{
				name,
				strconv.Itoa(o.result.Compliance.Score),
				"non-compliant",
				strings.Join(o.result.Compliance.MissingCritical, ", "),
			})
			failed++
		}
	}
	ui.Table([]string{"FILE", "SCORE", "STATUS", "MISSING"}, rows)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed compliance", failed, len(outcomes))
	}
	ui.Success("all %d files compliant", len(outcomes))
	return nil
}

func printComplianceReport(report *compliance.Report) {
	ui.Header("Compliance")
	status := "non-compliant"
	if report.Valid {
		status = "compliant"
	}
	ui.KeyValue([][2]string{
		{"Score", strconv.Itoa(report.Score)},
		{"Status", status},
	})
	if len(report.MissingCritical) > 0 {
		ui.Error("missing critical fields: %s", strings.Join(report.MissingCritical, ", "))
	}
	if len(report.MissingRecommended) > 0 {
		ui.Warning("missing recommended fields: %s", strings.Join(report.MissingRecommended, ", "))
	}
	for _, e := range report.Errors {
		ui.Error("%s", e)
	}
	for _, w := range report.Warnings {
		ui.Warning("%s", w)
	}
}
