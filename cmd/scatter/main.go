// scatter scatters random circles and squares inside a bounding box, jitters
// them every iteration and culls the ones that overlap.
//
// Usage:
//
//	scatter run              - Run a simulation and print its events
//	scatter watch            - Watch a simulation live in the terminal
//	scatter serve            - Start SSH server for remote viewing
//	scatter history [run-id] - Show stored runs or the removals of one run
//	scatter config           - Print the default configuration
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set database path (default: ~/.scatter/runs.db)
//	--config <path>   - Use a custom scene config YAML
//	--preset <name>   - Density preset: sparse, normal, dense, crowded
//	--verbose         - Enable debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagPreset  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Scatter - random shapes that settle by culling overlaps",
	Long: `Scatter places random circles and squares inside a bounding box,
moves each one by a small random offset every iteration and removes
shapes that overlap another, until at most one shape remains or the
iteration limit is reached.

Available commands:
  run      - Run a simulation and print its events
  watch    - Watch a simulation live in the terminal
  serve    - Start SSH server for remote viewing
  history  - Show stored runs
  config   - Print the default configuration

Examples:
  scatter run --seed 42
  scatter run --preset dense --policy remove_both
  scatter watch --fps 8
  scatter serve --ssh :2222
  scatter history`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.scatter/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom scene config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Density preset: sparse, normal, dense, crowded")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the CLI logger. Logs go to stderr so event output on
// stdout stays clean.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "scatter",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
