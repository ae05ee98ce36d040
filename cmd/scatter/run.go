package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scatter/internal/scene"
	"github.com/vovakirdan/scatter/internal/storage"
)

var flagNoSave bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and print its events",
	Long: `Generate the shapes, then offset and cull them until at most one
shape remains or the iteration limit is reached. Every event is printed
to stdout; the run summary is stored in the database.

Cull policies:
  keep_first   - The earlier shape of an overlapping pair survives (default)
  remove_both  - Both shapes of an overlapping pair are removed; a pass
                 can leave no shapes at all

Examples:
  scatter run
  scatter run --seed 42 --shapes 200
  scatter run --preset crowded --iterations 50
  scatter run --policy remove_both --no-save`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the run summary")
}

func runRun(cmd *cobra.Command, _ []string) {
	settings := mustResolveSettings(cmd)
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := scene.NewRunner(settings, flagSeed, scene.NewWriterSink(os.Stdout), logger)
	summary, runErr := runner.Run(ctx)

	// Interrupted runs are still worth keeping
	if !flagNoSave && summary.Initial > 0 {
		saveSummary(summary)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Printf("\nRun %s (seed %d): %d -> %d shapes in %d iterations (%v)\n",
		summary.RunID, summary.Seed, summary.Initial, summary.Remaining,
		summary.Iterations, summary.Duration.Round(time.Millisecond))
}

func saveSummary(summary scene.Summary) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.RecordFromSummary(summary)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
	}
}
