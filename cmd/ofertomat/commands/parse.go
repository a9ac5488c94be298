package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/ofertomat/ofertomat/cmd/ofertomat/ui"
	"github.com/ofertomat/ofertomat/internal/storage"
	"github.com/ofertomat/ofertomat/internal/upload"
)

var (
	parseSheet   string
	parseJSON    bool
	parseSave    bool
	parseProject string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a listing export and report what was extracted",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "worksheet name for spreadsheet files")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "emit the full parse result as JSON")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "persist parsed records to the configured database")
	parseCmd.Flags().StringVar(&parseProject, "project", "", "project ID to file the records under (required with --save)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	projectID := uuid.Nil
	if parseSave {
		if parseProject == "" {
			return fmt.Errorf("--save requires --project")
		}
		projectID, err = uuid.Parse(parseProject)
		if err != nil {
			return fmt.Errorf("invalid project ID %q: %w", parseProject, err)
		}
	}

	pipeline, closeDB, err := buildPipeline(cmd.Context(), parseSave)
	if err != nil {
		return err
	}
	defer closeDB()

	sp := ui.NewSpinner("parsing " + filepath.Base(path))
	sp.Start()
	result, err := pipeline.Process(cmd.Context(), upload.Request{
		ProjectID: projectID,
		Filename:  filepath.Base(path),
		SheetName: parseSheet,
		Content:   content,
		Persist:   parseSave,
	})
	sp.Stop()
	if err != nil && result.Parse == nil {
		return err
	}

	if parseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Parse)
	}

	printParseResult(path, result)
	if err != nil {
		return err
	}
	if !result.Parse.Success {
		return fmt.Errorf("parsing %s failed", path)
	}
	return nil
}

func printParseResult(path string, result *upload.Result) {
	pr := result.Parse

	ui.Header("Parse result: " + filepath.Base(path))
	ui.KeyValue([][2]string{
		{"Format", fmt.Sprintf("%s (%.0f%%)", pr.DetectedFormat, pr.FormatConfidence)},
		{"Mapping confidence", fmt.Sprintf("%.0f%%", pr.Confidence*100)},
		{"Mapped fields", strconv.Itoa(len(pr.Mappings))},
		{"Total rows", strconv.Itoa(pr.TotalRows)},
		{"Valid rows", strconv.Itoa(pr.ValidRows)},
		{"Parsed records", strconv.Itoa(pr.ValidationStats.SuccessfullyParsed)},
	})

	if len(pr.Mappings) > 0 {
		ui.Header("Column mapping")
		rows := make([][]string, 0, len(pr.Mappings))
		for field, header := range pr.Mappings {
			rows = append(rows, []string{field, header})
		}
		sortRows(rows)
		ui.Table([]string{"FIELD", "COLUMN"}, rows)
	}

	stats := pr.ValidationStats
	if stats.EmptyRows+stats.TooFewColumns+stats.SoldProperties+stats.InvalidCriticalData > 0 {
		ui.Header("Skipped rows")
		ui.KeyValue([][2]string{
			{"Empty", strconv.Itoa(stats.EmptyRows)},
			{"Too few columns", strconv.Itoa(stats.TooFewColumns)},
			{"Sold", strconv.Itoa(stats.SoldProperties)},
			{"Missing critical data", strconv.Itoa(stats.InvalidCriticalData)},
		})
		if verbose && len(stats.Details) > 0 {
			rows := make([][]string, 0, len(stats.Details))
			for _, d := range stats.Details {
				rows = append(rows, []string{strconv.Itoa(d.Row), d.Reason})
			}
			ui.Table([]string{"LINE", "REASON"}, rows)
		}
	}

	for _, w := range pr.Warnings {
		ui.Warning("%s", w)
	}
	for _, e := range pr.Errors {
		ui.Error("%s", e)
	}

	if result.Compliance != nil {
		printComplianceReport(result.Compliance)
	}

	fmt.Println()
	if pr.Success {
		ui.Success("parsed %d records in %s", stats.SuccessfullyParsed, result.Duration.Round(time.Millisecond))
	}
	if result.SavedRecords > 0 {
		ui.Success("saved %d records (run %s)", result.SavedRecords, result.RunID)
	}
}

// buildPipeline wires an upload pipeline, opening the configured database
// only when persistence is requested. The returned func closes the DB.
func buildPipeline(ctx context.Context, withStorage bool) (*upload.Pipeline, func(), error) {
	if !withStorage {
		return upload.NewPipeline(logger, nil), func() {}, nil
	}

	db, err := sql.Open(cfg.SQLDriver(), cfg.DatabaseDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	pipeline := upload.NewPipeline(logger, db)
	return pipeline, func() { db.Close() }, nil
}

func sortRows(rows [][]string) {
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
}
