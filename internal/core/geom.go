// Package core provides the geometric value types and small utilities shared
// by the scene, the viewer and the CLI. It has no UI dependencies so the
// simulation stays pure and testable.
package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// V2 is shorthand for building a position or displacement.
func V2(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}
}

// Component returns the i-th component of v (0 = x, 1 = y).
func Component(v mgl64.Vec2, i int) (float64, error) {
	if i < 0 || i >= len(v) {
		return 0, fmt.Errorf("component %d of %s: %w", i, FormatVec(v), ErrIndexOutOfRange)
	}
	return v[i], nil
}

// DistanceSq returns the squared euclidean distance between a and b.
func DistanceSq(a, b mgl64.Vec2) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// FormatVec renders a vector as "[x,y]".
func FormatVec(v mgl64.Vec2) string {
	return "[" + formatFloat(v.X()) + "," + formatFloat(v.Y()) + "]"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// Quadrant identifies a region relative to a box centre.
type Quadrant int

const (
	QuadrantUndefined Quadrant = iota
	QuadrantUpperRight
	QuadrantLowerRight
	QuadrantLowerLeft
	QuadrantUpperLeft
)

// String returns a human-readable name for the quadrant.
func (q Quadrant) String() string {
	switch q {
	case QuadrantUpperRight:
		return "UpperRight"
	case QuadrantLowerRight:
		return "LowerRight"
	case QuadrantLowerLeft:
		return "LowerLeft"
	case QuadrantUpperLeft:
		return "UpperLeft"
	default:
		return "Undefined"
	}
}

// EnclosedState describes which side of a box pokes out of another.
type EnclosedState int

const (
	EnclosedFull EnclosedState = iota
	EnclosedLowerLeftOut
	EnclosedUpperRightOut
	EnclosedLarger
)

// BoundingBox is an axis-aligned box defined by two opposite corners.
// The lower-left corner is never greater than the upper-right one on
// either axis.
type BoundingBox struct {
	lowerLeft  mgl64.Vec2
	upperRight mgl64.Vec2
}

// NewBoundingBox creates a box from any two opposite corners.
func NewBoundingBox(a, b mgl64.Vec2) BoundingBox {
	return BoundingBox{
		lowerLeft:  mgl64.Vec2{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y())},
		upperRight: mgl64.Vec2{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y())},
	}
}

// Box creates a box from the scalar coordinates of two opposite corners.
func Box(x0, y0, x1, y1 float64) BoundingBox {
	return NewBoundingBox(V2(x0, y0), V2(x1, y1))
}

// LowerLeft returns the minimum corner.
func (b BoundingBox) LowerLeft() mgl64.Vec2 {
	return b.lowerLeft
}

// UpperRight returns the maximum corner.
func (b BoundingBox) UpperRight() mgl64.Vec2 {
	return b.upperRight
}

// UpperLeft returns the corner with minimum x and maximum y.
func (b BoundingBox) UpperLeft() mgl64.Vec2 {
	return mgl64.Vec2{b.lowerLeft.X(), b.upperRight.Y()}
}

// LowerRight returns the corner with maximum x and minimum y.
func (b BoundingBox) LowerRight() mgl64.Vec2 {
	return mgl64.Vec2{b.upperRight.X(), b.lowerLeft.Y()}
}

// Size returns the width and height of the box.
func (b BoundingBox) Size() mgl64.Vec2 {
	return b.upperRight.Sub(b.lowerLeft)
}

// Centre returns the midpoint of the box.
func (b BoundingBox) Centre() mgl64.Vec2 {
	return b.lowerLeft.Add(b.Size().Mul(0.5))
}

// Area returns width * height.
func (b BoundingBox) Area() float64 {
	s := b.Size()
	return s.X() * s.Y()
}

// Offset returns a copy of the box translated by delta.
func (b BoundingBox) Offset(delta mgl64.Vec2) BoundingBox {
	b.Translate(delta)
	return b
}

// Translate moves both corners by delta in place.
func (b *BoundingBox) Translate(delta mgl64.Vec2) {
	b.lowerLeft = b.lowerLeft.Add(delta)
	b.upperRight = b.upperRight.Add(delta)
}

// Intersects returns true if the boxes overlap with positive area.
// Boxes that only share an edge do not intersect.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.lowerLeft.X() >= other.upperRight.X() ||
		b.lowerLeft.Y() >= other.upperRight.Y() ||
		b.upperRight.X() <= other.lowerLeft.X() ||
		b.upperRight.Y() <= other.lowerLeft.Y())
}

// Encloses returns true if other lies strictly inside b.
func (b BoundingBox) Encloses(other BoundingBox) bool {
	return other.lowerLeft.X() > b.lowerLeft.X() &&
		other.lowerLeft.Y() > b.lowerLeft.Y() &&
		other.upperRight.X() < b.upperRight.X() &&
		other.upperRight.Y() < b.upperRight.Y()
}

// ContainsPoint returns true if p lies strictly inside b.
func (b BoundingBox) ContainsPoint(p mgl64.Vec2) bool {
	return p.X() > b.lowerLeft.X() && p.X() < b.upperRight.X() &&
		p.Y() > b.lowerLeft.Y() && p.Y() < b.upperRight.Y()
}

// Enclosure reports which corner of other, if any, falls outside b.
// Unlike Encloses, shared edges count as inside.
func (b BoundingBox) Enclosure(other BoundingBox) EnclosedState {
	lowerIn := other.lowerLeft.X() >= b.lowerLeft.X() && other.lowerLeft.Y() >= b.lowerLeft.Y()
	upperIn := other.upperRight.X() <= b.upperRight.X() && other.upperRight.Y() <= b.upperRight.Y()

	switch {
	case lowerIn && upperIn:
		return EnclosedFull
	case lowerIn:
		return EnclosedUpperRightOut
	case upperIn:
		return EnclosedLowerLeftOut
	default:
		return EnclosedLarger
	}
}

// Fits returns true if a box of the given size could be placed strictly
// inside b.
func (b BoundingBox) Fits(size mgl64.Vec2) bool {
	s := b.Size()
	return size.X() < s.X() && size.Y() < s.Y()
}

// RelativePosition classifies which quadrant around b's centre the box
// other occupies. Every corner of other must be strictly on the same side
// of both centre axes, otherwise the result is QuadrantUndefined.
func (b BoundingBox) RelativePosition(other BoundingBox) Quadrant {
	c := b.Centre()
	corners := [4]mgl64.Vec2{other.lowerLeft, other.LowerRight(), other.upperRight, other.UpperLeft()}

	right, left, up, down := true, true, true, true
	for _, p := range corners {
		right = right && p.X() > c.X()
		left = left && p.X() < c.X()
		up = up && p.Y() > c.Y()
		down = down && p.Y() < c.Y()
	}

	switch {
	case right && up:
		return QuadrantUpperRight
	case right && down:
		return QuadrantLowerRight
	case left && down:
		return QuadrantLowerLeft
	case left && up:
		return QuadrantUpperLeft
	default:
		return QuadrantUndefined
	}
}

// Corner returns the corner of b lying in quadrant q.
func (b BoundingBox) Corner(q Quadrant) (mgl64.Vec2, bool) {
	switch q {
	case QuadrantUpperRight:
		return b.upperRight, true
	case QuadrantLowerRight:
		return b.LowerRight(), true
	case QuadrantLowerLeft:
		return b.lowerLeft, true
	case QuadrantUpperLeft:
		return b.UpperLeft(), true
	default:
		return mgl64.Vec2{}, false
	}
}

// ClosestPoint returns the point of b nearest to p.
func (b BoundingBox) ClosestPoint(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		ClampF(p.X(), b.lowerLeft.X(), b.upperRight.X()),
		ClampF(p.Y(), b.lowerLeft.Y(), b.upperRight.Y()),
	}
}

// String renders the box as "[[x0,y0],[x1,y1]]".
func (b BoundingBox) String() string {
	return "[" + FormatVec(b.lowerLeft) + "," + FormatVec(b.upperRight) + "]"
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// String returns a human-readable name for the state.
func (e EnclosedState) String() string {
	switch e {
	case EnclosedFull:
		return "full"
	case EnclosedLowerLeftOut:
		return "lower-left out"
	case EnclosedUpperRightOut:
		return "upper-right out"
	default:
		return "larger"
	}
}
