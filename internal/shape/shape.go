// Package shape implements the circle and square shapes scattered by a
// scene. A Shape is a closed tagged variant: the Kind field selects which
// size fields are meaningful and which intersection test applies.
package shape

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/scatter/internal/core"
)

// Kind identifies the concrete variant of a Shape.
type Kind int

const (
	KindCircle Kind = iota
	KindSquare
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSquare:
		return "square"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape is a circle or an axis-aligned rectangle positioned by its centre.
type Shape struct {
	ID       int        // Stable identity assigned by the owning scene
	Kind     Kind       // Variant tag
	Position mgl64.Vec2 // Centre of the shape
	Radius   float64    // Circle only
	Width    float64    // Square only
	Height   float64    // Square only
}

// NewCircle creates a circle centred on the origin.
func NewCircle(radius float64) *Shape {
	return &Shape{Kind: KindCircle, Radius: radius}
}

// NewSquare creates a width x height rectangle centred on the origin.
func NewSquare(width, height float64) *Shape {
	return &Shape{Kind: KindSquare, Width: width, Height: height}
}

// HalfExtents returns the distance from the centre to the bounding box
// edges along each axis.
func (s *Shape) HalfExtents() (mgl64.Vec2, error) {
	switch s.Kind {
	case KindCircle:
		return mgl64.Vec2{s.Radius, s.Radius}, nil
	case KindSquare:
		return mgl64.Vec2{s.Width / 2, s.Height / 2}, nil
	default:
		return mgl64.Vec2{}, fmt.Errorf("shape: half extents of %s: %w", s.Kind, core.ErrUnsupportedShapeKind)
	}
}

// BoundingBox returns the axis-aligned extent of the shape at its current
// position.
func (s *Shape) BoundingBox() (core.BoundingBox, error) {
	return s.boxAt(s.Position)
}

func (s *Shape) boxAt(pos mgl64.Vec2) (core.BoundingBox, error) {
	half, err := s.HalfExtents()
	if err != nil {
		return core.BoundingBox{}, err
	}
	return core.NewBoundingBox(pos.Sub(half), pos.Add(half)), nil
}

// SetPosition moves the shape to pos if its bounding box there is strictly
// enclosed by clamp. Otherwise the shape is left untouched and false is
// returned so the caller can try another candidate.
func (s *Shape) SetPosition(pos mgl64.Vec2, clamp core.BoundingBox) bool {
	candidate, err := s.boxAt(pos)
	if err != nil {
		return false
	}
	if !clamp.Encloses(candidate) {
		return false
	}
	s.Position = pos
	return true
}

// OffsetPositionBy is SetPosition(Position + delta, clamp).
func (s *Shape) OffsetPositionBy(delta mgl64.Vec2, clamp core.BoundingBox) bool {
	return s.SetPosition(s.Position.Add(delta), clamp)
}

// MoveTo sets the position without any boundary check.
func (s *Shape) MoveTo(pos mgl64.Vec2) {
	s.Position = pos
}

// MoveBy offsets the position without any boundary check.
func (s *Shape) MoveBy(delta mgl64.Vec2) {
	s.Position = s.Position.Add(delta)
}

// Equal reports whether two shapes have the same kind, position and size.
// IDs are identity, not value, and are ignored.
func (s *Shape) Equal(other *Shape) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Kind != other.Kind || s.Position != other.Position {
		return false
	}
	switch s.Kind {
	case KindCircle:
		return s.Radius == other.Radius
	case KindSquare:
		return s.Width == other.Width && s.Height == other.Height
	default:
		return false
	}
}

// String renders the shape as e.g. "circle#3[[1,2],0.5]".
func (s *Shape) String() string {
	switch s.Kind {
	case KindCircle:
		return fmt.Sprintf("circle#%d[%s,%g]", s.ID, core.FormatVec(s.Position), s.Radius)
	case KindSquare:
		return fmt.Sprintf("square#%d[%s,%g,%g]", s.ID, core.FormatVec(s.Position), s.Width, s.Height)
	default:
		return fmt.Sprintf("%s#%d[%s]", s.Kind, s.ID, core.FormatVec(s.Position))
	}
}

// Contains reports whether p lies inside the shape (edges included).
func (s *Shape) Contains(p mgl64.Vec2) bool {
	switch s.Kind {
	case KindCircle:
		return core.DistanceSq(s.Position, p) <= s.Radius*s.Radius
	case KindSquare:
		half := mgl64.Vec2{s.Width / 2, s.Height / 2}
		d := p.Sub(s.Position)
		return d.X() >= -half.X() && d.X() <= half.X() && d.Y() >= -half.Y() && d.Y() <= half.Y()
	default:
		return false
	}
}
