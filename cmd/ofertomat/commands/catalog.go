package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ofertomat/ofertomat/cmd/ofertomat/ui"
	"github.com/ofertomat/ofertomat/internal/parser"
)

var catalogFilter string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the canonical fields and the headers that map to them",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFilter, "filter", "", "only show fields whose name contains this substring")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	rows := make([][]string, 0, len(parser.Catalog()))
	for _, entry := range parser.Catalog() {
		if catalogFilter != "" && !strings.Contains(entry.Field, catalogFilter) {
			continue
		}
		rows = append(rows, []string{entry.Field, strings.Join(entry.Patterns, ", ")})
	}
	ui.Table([]string{"FIELD", "RECOGNIZED HEADERS"}, rows)
	return nil
}
