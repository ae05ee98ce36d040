package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/shape"
)

// stubRandom returns a fixed fraction of every requested range.
type stubRandom struct {
	frac float64
	kind int
}

func (r stubRandom) Uniform(lower, upper float64) float64 {
	return lower + r.frac*(upper-lower)
}

func (r stubRandom) Intn(int) int {
	return r.kind
}

func circleAt(x, y, r float64) *shape.Shape {
	c := shape.NewCircle(r)
	c.MoveTo(core.V2(x, y))
	return c
}

func squareAt(x, y, w, h float64) *shape.Shape {
	s := shape.NewSquare(w, h)
	s.MoveTo(core.V2(x, y))
	return s
}

func requireEnclosed(t *testing.T, s *Scene) {
	t.Helper()
	for _, sh := range s.Shapes() {
		box, err := sh.BoundingBox()
		require.NoError(t, err)
		require.True(t, s.Clamp().Encloses(box), "%s escaped %s", sh.String(), s.Clamp())
	}
}

func TestGenerateInitialShapes(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100), WithRandom(core.NewRandom(42)))
	assert.Equal(t, PhaseUninitialized, s.Phase())

	require.NoError(t, s.GenerateInitialShapes(50, 5))
	assert.Equal(t, 50, s.NumShapes())
	assert.Equal(t, PhasePopulated, s.Phase())
	requireEnclosed(t, s)

	kinds := map[shape.Kind]int{}
	for i, sh := range s.Shapes() {
		assert.Equal(t, i, sh.ID)
		kinds[sh.Kind]++
		half, err := sh.HalfExtents()
		require.NoError(t, err)
		assert.LessOrEqual(t, half.X()*2, 10.0)
		assert.LessOrEqual(t, half.Y()*2, 10.0)
	}
	assert.Positive(t, kinds[shape.KindCircle])
	assert.Positive(t, kinds[shape.KindSquare])
}

func TestGenerateInitialShapesTwice(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100))
	require.NoError(t, s.GenerateInitialShapes(3, 2))
	err := s.GenerateInitialShapes(3, 2)
	assert.ErrorIs(t, err, ErrAlreadyPopulated)
	assert.Equal(t, 3, s.NumShapes())
}

func TestGenerateInitialShapesDeterministic(t *testing.T) {
	a := New(core.Box(0, 0, 100, 100), WithRandom(core.NewRandom(7)))
	b := New(core.Box(0, 0, 100, 100), WithRandom(core.NewRandom(7)))
	require.NoError(t, a.GenerateInitialShapes(20, 5))
	require.NoError(t, b.GenerateInitialShapes(20, 5))
	assert.Equal(t, a.Shapes(), b.Shapes())
}

func TestGenerateShapeTooLarge(t *testing.T) {
	s := New(core.Box(0, 0, 10, 10), WithRandom(stubRandom{frac: 0.999, kind: 0}))

	err := s.GenerateInitialShapes(5, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrShapeTooLarge))
	assert.Equal(t, 0, s.NumShapes())
	assert.Equal(t, PhaseUninitialized, s.Phase())
}

// scriptedRandom replays fractions of the requested range in order and
// repeats the last one once the script runs out. Intn always picks a circle.
type scriptedRandom struct {
	fracs []float64
	next  int
}

func (r *scriptedRandom) Uniform(lower, upper float64) float64 {
	f := r.fracs[min(r.next, len(r.fracs)-1)]
	r.next++
	return lower + f*(upper-lower)
}

func (r *scriptedRandom) Intn(int) int {
	return 1
}

func TestGenerateFailurePartwayLeavesSceneEmpty(t *testing.T) {
	// First circle: radius 1.4 placed at (5,5). Second circle: radius 12.6,
	// which can never fit in a 10x10 box.
	rng := &scriptedRandom{fracs: []float64{0.1, 0.5, 0.5, 0.9}}
	s := New(core.Box(0, 0, 10, 10), WithRandom(rng))

	err := s.GenerateInitialShapes(5, 14)
	require.ErrorIs(t, err, core.ErrShapeTooLarge)
	assert.Equal(t, 0, s.NumShapes())
	assert.Equal(t, PhaseUninitialized, s.Phase())

	// The retry draws radius 0.9 at (9,9) for every shape.
	require.NoError(t, s.GenerateInitialShapes(5, 1))
	assert.Equal(t, 5, s.NumShapes())
	assert.Equal(t, PhasePopulated, s.Phase())
	for i, sh := range s.Shapes() {
		assert.Equal(t, i, sh.ID)
	}
	requireEnclosed(t, s)
}

func TestGeneratePlacementExhausted(t *testing.T) {
	// A zero-radius circle drawn onto the lower-left corner is never
	// strictly enclosed, and the stub keeps drawing that same corner.
	s := New(core.Box(0, 0, 10, 10),
		WithRandom(stubRandom{frac: 0, kind: 1}),
		WithMaxAttempts(10),
	)

	err := s.GenerateInitialShapes(1, 3)
	assert.ErrorIs(t, err, core.ErrPlacementExhausted)
	assert.Equal(t, 0, s.NumShapes())
}

func TestApplyRandomOffsetsKeepsPinnedShapeEnclosed(t *testing.T) {
	clamp := core.Box(0, 0, 100, 100)
	s := New(clamp, WithRandom(core.NewRandom(3)))
	require.NoError(t, s.Add(squareAt(1.5, 1.5, 2, 2)))
	require.NoError(t, s.Add(circleAt(98.5, 98.5, 1)))

	for i := 0; i < 200; i++ {
		require.NoError(t, s.ApplyRandomOffsets(2.0))
		requireEnclosed(t, s)
	}
	assert.Equal(t, PhaseSettling, s.Phase())
}

func TestApplyRandomOffsetsMoves(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100), WithRandom(core.NewRandom(11)))
	require.NoError(t, s.Add(circleAt(50, 50, 1)))

	require.NoError(t, s.ApplyRandomOffsets(2.0))
	moved := s.Shapes()[0].Position
	assert.NotEqual(t, core.V2(50, 50), moved)
	assert.InDelta(t, 50, moved.X(), 2)
	assert.InDelta(t, 50, moved.Y(), 2)
}

func TestApplyRandomOffsetsZero(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100))
	require.NoError(t, s.Add(circleAt(50, 50, 1)))
	require.NoError(t, s.ApplyRandomOffsets(0))
	assert.Equal(t, core.V2(50, 50), s.Shapes()[0].Position)
}

func TestAddRejectsEscapingShape(t *testing.T) {
	s := New(core.Box(0, 0, 10, 10))
	err := s.Add(circleAt(1, 1, 2))
	assert.ErrorIs(t, err, core.ErrShapeTooLarge)
	assert.Equal(t, 0, s.NumShapes())
}

func TestCullKeepFirstRemovesExactlyOne(t *testing.T) {
	sink := NewMemorySink()
	s := New(core.Box(0, 0, 100, 100), WithSink(sink))
	require.NoError(t, s.Add(circleAt(20, 20, 5)))
	require.NoError(t, s.Add(circleAt(24, 20, 5)))

	removed, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.True(t, removed)
	require.Equal(t, 1, s.NumShapes())
	assert.Equal(t, 0, s.Shapes()[0].ID)
	assert.Equal(t, []string{"circle#0[[20,20],5] intersects circle#1[[24,20],5]"}, sink.Lines())
	assert.Equal(t, PhaseTerminal, s.Phase())
}

func TestCullRemoveBoth(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100), WithCullPolicy(CullRemoveBoth))
	require.NoError(t, s.Add(circleAt(20, 20, 5)))
	require.NoError(t, s.Add(squareAt(26, 20, 4, 4)))
	require.NoError(t, s.Add(circleAt(80, 80, 5)))

	removed, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.True(t, removed)
	require.Equal(t, 1, s.NumShapes())
	assert.Equal(t, 2, s.Shapes()[0].ID)
}

func TestCullRemoveBothCanEmptyScene(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100), WithCullPolicy(CullRemoveBoth))
	require.NoError(t, s.Add(circleAt(20, 20, 5)))
	require.NoError(t, s.Add(circleAt(24, 20, 5)))

	removed, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, s.NumShapes())
	assert.Equal(t, PhaseTerminal, s.Phase())
}

func TestCullRemovedShapeDoesNotCullFurther(t *testing.T) {
	// b overlaps both a and c, a and c are apart. a removes b first, so c
	// survives even though it overlapped b.
	s := New(core.Box(0, 0, 100, 100))
	require.NoError(t, s.Add(circleAt(20, 50, 5)))
	require.NoError(t, s.Add(circleAt(28, 50, 5)))
	require.NoError(t, s.Add(circleAt(36, 50, 5)))

	_, err := s.CullOverlapping()
	require.NoError(t, err)

	ids := []int{}
	for _, sh := range s.Shapes() {
		ids = append(ids, sh.ID)
	}
	assert.Equal(t, []int{0, 2}, ids)
	assert.Equal(t, PhaseSettling, s.Phase())
}

func TestCullNothingToRemove(t *testing.T) {
	sink := NewMemorySink()
	s := New(core.Box(0, 0, 100, 100), WithSink(sink))
	// Boxes overlap, circles do not.
	require.NoError(t, s.Add(circleAt(20, 20, 5)))
	require.NoError(t, s.Add(circleAt(29, 29, 5)))

	removed, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, s.NumShapes())
	assert.Empty(t, sink.Lines())
}

func TestCullEmptyScene(t *testing.T) {
	s := New(core.Box(0, 0, 10, 10))
	removed, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, PhaseUninitialized, s.Phase())
}

func TestCullUnsupportedKindLeavesSceneUntouched(t *testing.T) {
	sink := NewMemorySink()
	s := New(core.Box(0, 0, 100, 100), WithSink(sink))
	require.NoError(t, s.Add(circleAt(20, 20, 5)))
	require.NoError(t, s.Add(circleAt(22, 20, 5)))
	require.NoError(t, s.Add(circleAt(60, 60, 5)))
	s.shapes[2].Kind = shape.Kind(9)

	removed, err := s.CullOverlapping()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedShapeKind)
	assert.False(t, removed)
	assert.Equal(t, 3, s.NumShapes())
	assert.Empty(t, sink.Lines(), "no events are reported for an aborted pass")
}

func TestCullLeavesNoOverlappingSurvivors(t *testing.T) {
	for _, policy := range []CullPolicy{CullKeepFirst, CullRemoveBoth} {
		t.Run(policy.String(), func(t *testing.T) {
			s := New(core.Box(0, 0, 50, 50),
				WithRandom(core.NewRandom(99)),
				WithCullPolicy(policy),
			)
			require.NoError(t, s.GenerateInitialShapes(60, 6))

			for i := 0; i < 5; i++ {
				require.NoError(t, s.ApplyRandomOffsets(2))
				_, err := s.CullOverlapping()
				require.NoError(t, err)
				requireEnclosed(t, s)

				shapes := s.Shapes()
				for a := range shapes {
					for b := a + 1; b < len(shapes); b++ {
						hit, err := shapes[a].Intersects(&shapes[b])
						require.NoError(t, err)
						assert.False(t, hit, "%s and %s both survived", shapes[a].String(), shapes[b].String())
					}
				}
			}
		})
	}
}

func TestRemovalHook(t *testing.T) {
	var got [][2]int
	s := New(core.Box(0, 0, 100, 100), WithRemovalHook(func(survivor, removed shape.Shape) {
		got = append(got, [2]int{survivor.ID, removed.ID})
	}))
	require.NoError(t, s.Add(squareAt(10, 10, 4, 4)))
	require.NoError(t, s.Add(squareAt(12, 12, 4, 4)))
	require.NoError(t, s.Add(squareAt(11, 9, 4, 4)))

	_, err := s.CullOverlapping()
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}}, got)
}

func TestPrintAllShapes(t *testing.T) {
	sink := NewMemorySink()
	s := New(core.Box(0, 0, 100, 100), WithSink(sink))
	require.NoError(t, s.Add(circleAt(10, 10, 1)))
	require.NoError(t, s.Add(squareAt(20, 20, 2, 3)))

	s.PrintAllShapes()
	assert.Equal(t, []string{
		"0: circle#0[[10,10],1]",
		"1: square#1[[20,20],2,3]",
	}, sink.Lines())
}

func TestShapesReturnsCopies(t *testing.T) {
	s := New(core.Box(0, 0, 100, 100))
	require.NoError(t, s.Add(circleAt(10, 10, 1)))

	shapes := s.Shapes()
	shapes[0].MoveTo(core.V2(-1, -1))
	assert.Equal(t, core.V2(10, 10), s.Shapes()[0].Position)
}

func TestParseCullPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CullPolicy
		wantErr bool
	}{
		{"", CullKeepFirst, false},
		{"keep_first", CullKeepFirst, false},
		{"remove_both", CullRemoveBoth, false},
		{"remove_all", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCullPolicy(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			if tc.in != "" {
				assert.Equal(t, tc.in, got.String())
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "uninitialized", PhaseUninitialized.String())
	assert.Equal(t, "terminal", PhaseTerminal.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
