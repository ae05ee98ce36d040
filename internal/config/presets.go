package config

import "fmt"

// DensityPreset represents a named crowding level.
type DensityPreset string

const (
	DensitySparse  DensityPreset = "sparse"
	DensityNormal  DensityPreset = "normal"
	DensityDense   DensityPreset = "dense"
	DensityCrowded DensityPreset = "crowded"
)

// Presets lists every preset in increasing density.
var Presets = []DensityPreset{DensitySparse, DensityNormal, DensityDense, DensityCrowded}

// ParsePreset converts a flag value into a preset. An empty name is valid
// and means "leave the config alone".
func ParsePreset(name string) (DensityPreset, error) {
	if name == "" {
		return "", nil
	}
	for _, p := range Presets {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want sparse, normal, dense or crowded)", name)
}

// ApplyPreset modifies the config based on a density preset.
// Shape count and size scale with the boundary area so a preset means the
// same crowding on any boundary.
func ApplyPreset(cfg *SceneConfig, preset DensityPreset) {
	var perTenThousand int
	var maxDim float64

	switch preset {
	case DensitySparse:
		perTenThousand, maxDim = 20, 3
	case DensityNormal:
		perTenThousand, maxDim = 50, 5
	case DensityDense:
		perTenThousand, maxDim = 120, 6
	case DensityCrowded:
		perTenThousand, maxDim = 250, 8
	default:
		return
	}

	area := 10000.0
	if box, err := cfg.Boundary.Box(); err == nil && box.Area() > 0 {
		area = box.Area()
	}
	cfg.Shapes.Count = max(int(float64(perTenThousand)*area/10000.0), 1)
	cfg.Shapes.MaxDimension = maxDim
}
