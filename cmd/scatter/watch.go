package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/platform/tui"
	"github.com/vovakirdan/scatter/internal/storage"
)

var flagFPS int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a simulation live in the terminal",
	Long: `Open an interactive viewer that advances the simulation one
iteration per tick. Circles are drawn as 'o', squares as '#'.

Controls:
  P/Space    - Pause
  N/Right    - Single step
  R          - Restart with a new seed
  ?          - More help
  Q/Ctrl+C   - Quit

Examples:
  scatter watch
  scatter watch --fps 10 --preset dense
  scatter watch --seed 42 --iterations 100`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	addSceneFlags(watchCmd)
	watchCmd.Flags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Iterations per second")
}

func runWatch(cmd *cobra.Command, _ []string) {
	settings := mustResolveSettings(cmd)

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	// Open storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - runs won't be saved
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	// The alt screen owns the terminal, so logs are dropped unless asked for
	logger := newLogger()
	if !flagVerbose {
		logger.SetOutput(io.Discard)
	}

	if err := tui.Run(settings, store, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}
