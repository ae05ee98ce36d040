// Package config provides YAML-based scene configuration loading and
// density presets for scatter.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/scene"
)

// SceneConfig contains all configuration for a scatter run.
type SceneConfig struct {
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Shapes     ShapesConfig     `yaml:"shapes"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// BoundaryConfig defines the clamp box as two opposite corners.
type BoundaryConfig struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// ShapesConfig defines how many shapes are generated and how big they get.
type ShapesConfig struct {
	Count        int     `yaml:"count"`
	MaxDimension float64 `yaml:"max_dimension"`
}

// SimulationConfig defines the settle loop.
type SimulationConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	MaxOffset     float64 `yaml:"max_offset"`
	MaxAttempts   int     `yaml:"max_attempts"`
	CullPolicy    string  `yaml:"cull_policy"` // "keep_first" or "remove_both"
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Box returns the boundary as a bounding box.
func (b BoundaryConfig) Box() (core.BoundingBox, error) {
	if len(b.Min) != 2 || len(b.Max) != 2 {
		return core.BoundingBox{}, fmt.Errorf("%w: boundary corners need exactly 2 components", ErrInvalidConfig)
	}
	return core.Box(b.Min[0], b.Min[1], b.Max[0], b.Max[1]), nil
}

// Validate checks the configuration for values the scene cannot run with.
func (c SceneConfig) Validate() error {
	box, err := c.Boundary.Box()
	if err != nil {
		return err
	}
	if box.Area() <= 0 {
		return fmt.Errorf("%w: boundary %s has no area", ErrInvalidConfig, box)
	}
	if c.Shapes.Count < 0 {
		return fmt.Errorf("%w: shapes.count must not be negative", ErrInvalidConfig)
	}
	if c.Shapes.MaxDimension < 0 {
		return fmt.Errorf("%w: shapes.max_dimension must not be negative", ErrInvalidConfig)
	}
	if c.Simulation.MaxIterations < 0 {
		return fmt.Errorf("%w: simulation.max_iterations must not be negative", ErrInvalidConfig)
	}
	if c.Simulation.MaxOffset < 0 {
		return fmt.Errorf("%w: simulation.max_offset must not be negative", ErrInvalidConfig)
	}
	if c.Simulation.MaxAttempts <= 0 {
		return fmt.Errorf("%w: simulation.max_attempts must be positive", ErrInvalidConfig)
	}
	if _, err := scene.ParseCullPolicy(c.Simulation.CullPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Settings validates the configuration and converts it for a scene runner.
func (c SceneConfig) Settings() (scene.Settings, error) {
	if err := c.Validate(); err != nil {
		return scene.Settings{}, err
	}
	box, _ := c.Boundary.Box()
	policy, _ := scene.ParseCullPolicy(c.Simulation.CullPolicy)

	return scene.Settings{
		Boundary:      box,
		Count:         c.Shapes.Count,
		MaxDimension:  c.Shapes.MaxDimension,
		MaxIterations: c.Simulation.MaxIterations,
		MaxOffset:     c.Simulation.MaxOffset,
		MaxAttempts:   c.Simulation.MaxAttempts,
		Policy:        policy,
	}, nil
}
