package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ofertomat/ofertomat/cmd/ofertomat/ui"
	"github.com/ofertomat/ofertomat/internal/config"
	"github.com/ofertomat/ofertomat/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ofertomat",
	Short: "Parse and validate property listing exports",
	Long: `ofertomat reads property listing exports (CSV or XLSX), detects
their format, maps columns onto the canonical field catalog, validates
rows and scores the result against reporting requirements.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.DisableColor()
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      "console",
			Output:      os.Stderr,
			ServiceName: "ofertomat",
		})
		return nil
	},
}

// Execute runs the root command; errors are already printed.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
