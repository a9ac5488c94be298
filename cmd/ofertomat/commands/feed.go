package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ofertomat/ofertomat/cmd/ofertomat/ui"
	"github.com/ofertomat/ofertomat/internal/feed"
	"github.com/ofertomat/ofertomat/pkg/engine"
)

var (
	feedSheet     string
	feedOut       string
	feedDeveloper string
	feedNIP       string
	feedProject   string
)

var feedCmd = &cobra.Command{
	Use:   "feed <file>",
	Short: "Parse an export and write the publishable CSV and XML feed",
	Long: `feed parses a listing export and writes the reporting bundle:
a semicolon-delimited CSV, an XML report and their checksums. Sold and
invalid rows never reach the feed.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&feedSheet, "sheet", "", "worksheet name for spreadsheet files")
	feedCmd.Flags().StringVarP(&feedOut, "out", "o", ".", "output directory for the feed files")
	feedCmd.Flags().StringVar(&feedDeveloper, "developer", "", "developer name for the report header")
	feedCmd.Flags().StringVar(&feedNIP, "nip", "", "developer NIP for the report header")
	feedCmd.Flags().StringVar(&feedProject, "project-name", "", "investment name for the report header")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sp := ui.NewSpinner("building feed from " + filepath.Base(path))
	sp.Start()
	result, err := engine.New().Parse(content, filepath.Base(path), feedSheet)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if !result.Parse.Success {
		for _, e := range result.Parse.Errors {
			ui.Error("%s", e)
		}
		return fmt.Errorf("parsing %s failed", path)
	}

	bundle, err := feed.Build(result.Parse.Data, feed.Metadata{
		DeveloperName: feedDeveloper,
		DeveloperNIP:  feedNIP,
		ProjectName:   feedProject,
		ReportDate:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("building feed: %w", err)
	}

	base := filepath.Join(feedOut, stripExt(filepath.Base(path)))
	outputs := []struct {
		path string
		data []byte
	}{
		{base + ".csv", bundle.CSV},
		{base + ".csv.md5", []byte(bundle.CSVChecksum + "\n")},
		{base + ".xml", bundle.XML},
		{base + ".xml.md5", []byte(bundle.XMLChecksum + "\n")},
	}
	for _, out := range outputs {
		if err := os.WriteFile(out.path, out.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.path, err)
		}
	}

	ui.Success("wrote feed for %d records to %s.{csv,xml}", len(result.Parse.Data), base)
	return nil
}

func stripExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
