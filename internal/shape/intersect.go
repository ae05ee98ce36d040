package shape

import (
	"fmt"

	"github.com/vovakirdan/scatter/internal/core"
)

// Intersects reports whether s and other overlap.
//
// The bounding boxes are compared first; only pairs whose boxes overlap go
// on to the exact per-kind test. Pairs of kinds without a test fail with
// core.ErrUnsupportedShapeKind.
func (s *Shape) Intersects(other *Shape) (bool, error) {
	a, err := s.BoundingBox()
	if err != nil {
		return false, unsupported(s, other)
	}
	b, err := other.BoundingBox()
	if err != nil {
		return false, unsupported(s, other)
	}

	if !a.Intersects(b) {
		return false, nil
	}

	switch {
	case s.Kind == KindCircle && other.Kind == KindCircle:
		return circlesIntersect(s, other), nil
	case s.Kind == KindCircle && other.Kind == KindSquare:
		return circleSquareIntersect(s, a, b), nil
	case s.Kind == KindSquare && other.Kind == KindCircle:
		return circleSquareIntersect(other, b, a), nil
	case s.Kind == KindSquare && other.Kind == KindSquare:
		// Overlapping axis-aligned boxes are the squares themselves.
		return true, nil
	default:
		return false, unsupported(s, other)
	}
}

func unsupported(a, b *Shape) error {
	return fmt.Errorf("shape: cannot intersect %s with %s: %w", a.Kind, b.Kind, core.ErrUnsupportedShapeKind)
}

func circlesIntersect(a, b *Shape) bool {
	reach := a.Radius + b.Radius
	return core.DistanceSq(a.Position, b.Position) < reach*reach
}

// circleSquareIntersect tests a circle against a square given both boxes.
// The closest point of the square to the circle centre decides. The corner
// facing the circle's quadrant is only an early exit: a corner inside the
// circle implies the closest point is inside too, so it never changes the
// result.
func circleSquareIntersect(circle *Shape, circleBox, squareBox core.BoundingBox) bool {
	rSq := circle.Radius * circle.Radius

	if corner, ok := squareBox.Corner(squareBox.RelativePosition(circleBox)); ok {
		if core.DistanceSq(corner, circle.Position) < rSq {
			return true
		}
	}

	closest := squareBox.ClosestPoint(circle.Position)
	return core.DistanceSq(closest, circle.Position) < rSq
}
