package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/shape"
)

// Glyphs used when rasterizing shapes.
const (
	GlyphCircle = 'o'
	GlyphSquare = '#'
)

func glyphFor(k shape.Kind) (rune, core.Color) {
	switch k {
	case shape.KindCircle:
		return GlyphCircle, core.ColorCyan
	case shape.KindSquare:
		return GlyphSquare, core.ColorYellow
	default:
		return '?', core.ColorRed
	}
}

// Render draws the clamp boundary as a frame filling dst and rasterizes
// every shape inside it. World y grows upwards, screen y downwards. A cell
// is filled when its centre lies inside a shape; shapes too small to cover
// any cell centre still mark the cell holding their position.
func (s *Scene) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	dst.DrawFrame(0, 0, w, h, core.ColorGray)

	iw, ih := w-2, h-2
	if iw <= 0 || ih <= 0 {
		return
	}

	ll := s.clamp.LowerLeft()
	size := s.clamp.Size()
	if size.X() <= 0 || size.Y() <= 0 {
		return
	}
	cellW := size.X() / float64(iw)
	cellH := size.Y() / float64(ih)

	toWorld := func(cx, cy int) mgl64.Vec2 {
		return mgl64.Vec2{
			ll.X() + (float64(cx)+0.5)*cellW,
			ll.Y() + (float64(ih-1-cy)+0.5)*cellH,
		}
	}
	toCell := func(p mgl64.Vec2) (int, int) {
		cx := int(math.Floor((p.X() - ll.X()) / cellW))
		cy := ih - 1 - int(math.Floor((p.Y()-ll.Y())/cellH))
		return core.Clamp(cx, 0, iw-1), core.Clamp(cy, 0, ih-1)
	}

	for _, sh := range s.shapes {
		box, err := sh.BoundingBox()
		if err != nil {
			continue
		}
		glyph, color := glyphFor(sh.Kind)

		x0, y1 := toCell(box.LowerLeft())
		x1, y0 := toCell(box.UpperRight())
		covered := false
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				if sh.Contains(toWorld(cx, cy)) {
					dst.SetColored(cx+1, cy+1, glyph, color)
					covered = true
				}
			}
		}
		if !covered {
			cx, cy := toCell(sh.Position)
			dst.SetColored(cx+1, cy+1, glyph, color)
		}
	}
}
