package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scatter/internal/platform/tui"
	"github.com/vovakirdan/scatter/internal/storage"
)

var (
	flagHistoryLimit int
	flagInteractive  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show stored runs",
	Long: `Display the most recent stored runs with aggregate statistics.
With a run ID, display that run and every removal it recorded.

Examples:
  scatter history
  scatter history --limit 50
  scatter history 0b6f3c1e-5d2a-4c1b-9f7e-2a4d8e9c1b3f
  scatter history -i`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in an interactive table")
}

func runHistory(_ *cobra.Command, args []string) {
	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagInteractive:
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running history browser: %v\n", err)
			os.Exit(1)
		}
	case len(args) == 1:
		if err := printRun(store, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		if err := printRuns(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Println("Recent Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'scatter run' to record the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-36s  %-20s  %-7s  %-9s  %-5s  %s\n", "Run", "Seed", "Shapes", "Remaining", "Iters", "Date")
	fmt.Printf("  %-36s  %-20s  %-7s  %-9s  %-5s  %s\n", "---", "----", "------", "---------", "-----", "----")

	for _, r := range runs {
		fmt.Printf("  %-36s  %-20d  %-7d  %-9d  %-5d  %s\n",
			r.RunID, r.Seed, r.InitialShapes, r.RemainingShapes, r.Iterations, formatDate(r.CreatedAt))
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Removals: %d  Avg iterations: %.1f  Avg remaining: %.1f  Longest: %v\n",
		stats.Runs, stats.TotalRemovals, stats.AvgIterations, stats.AvgRemaining, stats.LongestRunTime)
	return nil
}

func printRun(store *storage.Store, runID string) error {
	run, err := store.RunByID(runID)
	if err != nil {
		return fmt.Errorf("retrieving run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("unknown run %q", runID)
	}

	removals, err := store.RunRemovals(runID)
	if err != nil {
		return fmt.Errorf("retrieving removals: %w", err)
	}

	fmt.Printf("Run %s\n", run.RunID)
	fmt.Println()
	fmt.Printf("  Seed:       %d\n", run.Seed)
	fmt.Printf("  Shapes:     %d -> %d\n", run.InitialShapes, run.RemainingShapes)
	fmt.Printf("  Iterations: %d\n", run.Iterations)
	fmt.Printf("  Duration:   %v\n", run.Duration)
	fmt.Printf("  Date:       %s\n", formatDate(run.CreatedAt))
	fmt.Println()

	if len(removals) == 0 {
		fmt.Println("No shapes were removed.")
		return nil
	}

	fmt.Printf("  %-4s  %-30s  %s\n", "Iter", "Survivor", "Removed")
	fmt.Printf("  %-4s  %-30s  %s\n", "----", "--------", "-------")
	for _, rm := range removals {
		fmt.Printf("  %-4d  %-30s  %s\n", rm.Iteration, rm.Survivor, rm.Removed)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
