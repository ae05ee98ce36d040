package core

import "errors"

// Sentinel errors shared by the geometry, shape and scene packages.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrIndexOutOfRange is returned for component access outside a vector.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnsupportedShapeKind is returned when two shapes have no
	// intersection test, or a shape has an unknown kind.
	ErrUnsupportedShapeKind = errors.New("unsupported shape kind")

	// ErrShapeTooLarge is returned when a shape can never fit strictly
	// inside the clamp boundary.
	ErrShapeTooLarge = errors.New("shape is larger than bounding box")

	// ErrPlacementExhausted is returned when rejection sampling runs out of
	// attempts without finding a valid position.
	ErrPlacementExhausted = errors.New("placement attempts exhausted")
)
