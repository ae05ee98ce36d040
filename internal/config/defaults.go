package config

import (
	_ "embed"

	"github.com/vovakirdan/scatter/internal/scene"
)

//go:embed defaults/scatter.yaml
var defaultSceneYAML []byte

// DefaultSceneConfig returns the default scene configuration.
// It mirrors defaults/scatter.yaml.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Boundary: BoundaryConfig{
			Min: []float64{0, 0},
			Max: []float64{100, 100},
		},
		Shapes: ShapesConfig{
			Count:        50,
			MaxDimension: 5.0,
		},
		Simulation: SimulationConfig{
			MaxIterations: 10,
			MaxOffset:     2.0,
			MaxAttempts:   scene.DefaultMaxAttempts,
			CullPolicy:    scene.CullKeepFirst.String(),
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSceneYAML
}
