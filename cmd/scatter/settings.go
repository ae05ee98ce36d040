package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scatter/internal/config"
	"github.com/vovakirdan/scatter/internal/scene"
)

var (
	flagShapes       int
	flagMaxDimension float64
	flagIterations   int
	flagMaxOffset    float64
	flagPolicy       string
)

// addSceneFlags registers the per-run overrides on a command.
func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagShapes, "shapes", 0, "Number of shapes to generate (overrides config)")
	cmd.Flags().Float64Var(&flagMaxDimension, "max-dimension", 0, "Upper bound for radius, width and height (overrides config)")
	cmd.Flags().IntVar(&flagIterations, "iterations", 0, "Maximum number of iterations (overrides config)")
	cmd.Flags().Float64Var(&flagMaxOffset, "max-offset", 0, "Per-axis bound of each random offset (overrides config)")
	cmd.Flags().StringVar(&flagPolicy, "policy", "", "Cull policy: keep_first or remove_both (overrides config)")
}

// mustResolveSettings loads the config, applies the preset and then any
// explicitly set flags. Exits on invalid input.
func mustResolveSettings(cmd *cobra.Command) scene.Settings {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.ApplyPreset(&cfg, preset)

	flags := cmd.Flags()
	if flags.Changed("shapes") {
		cfg.Shapes.Count = flagShapes
	}
	if flags.Changed("max-dimension") {
		cfg.Shapes.MaxDimension = flagMaxDimension
	}
	if flags.Changed("iterations") {
		cfg.Simulation.MaxIterations = flagIterations
	}
	if flags.Changed("max-offset") {
		cfg.Simulation.MaxOffset = flagMaxOffset
	}
	if flags.Changed("policy") {
		cfg.Simulation.CullPolicy = flagPolicy
	}

	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return settings
}
