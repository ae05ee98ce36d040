// Package scene implements the scatter-and-cull simulation: random shapes
// are placed inside a clamp boundary, jittered every iteration, and shapes
// that overlap another are removed until at most one remains.
package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/shape"
)

// DefaultMaxAttempts bounds every rejection-sampling loop.
const DefaultMaxAttempts = 10000

// ErrAlreadyPopulated is returned when shapes are generated twice.
var ErrAlreadyPopulated = errors.New("scene: shapes already generated")

// Phase is the lifecycle state of a scene.
type Phase int

const (
	PhaseUninitialized Phase = iota // No shapes generated yet
	PhasePopulated                  // Shapes generated, no iteration run
	PhaseSettling                   // Offsets and culls in progress
	PhaseTerminal                   // At most one shape remains
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePopulated:
		return "populated"
	case PhaseSettling:
		return "settling"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// CullPolicy decides which shapes of an intersecting pair are removed.
type CullPolicy int

const (
	// CullKeepFirst removes the later shape of every intersecting pair; the
	// earlier shape in insertion order survives.
	CullKeepFirst CullPolicy = iota
	// CullRemoveBoth removes the later shape immediately and the earlier one
	// once its scan is over, so both members of a pair disappear. A pass can
	// leave no shapes at all: two overlapping shapes both go.
	CullRemoveBoth
)

// String returns the config name of the policy.
func (p CullPolicy) String() string {
	switch p {
	case CullKeepFirst:
		return "keep_first"
	case CullRemoveBoth:
		return "remove_both"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseCullPolicy converts a config name into a CullPolicy.
func ParseCullPolicy(name string) (CullPolicy, error) {
	switch name {
	case "", "keep_first":
		return CullKeepFirst, nil
	case "remove_both":
		return CullRemoveBoth, nil
	default:
		return 0, fmt.Errorf("scene: unknown cull policy %q", name)
	}
}

// RemovalFunc is called once per removal committed by a cull pass.
type RemovalFunc func(survivor, removed shape.Shape)

// Scene owns the shapes of one simulation.
type Scene struct {
	shapes      []*shape.Shape
	clamp       core.BoundingBox
	rng         core.Random
	sink        Sink
	logger      *log.Logger
	policy      CullPolicy
	maxAttempts int
	onRemove    RemovalFunc
	nextID      int
	phase       Phase
}

// Option configures a Scene.
type Option func(*Scene)

// WithRandom sets the random source. Defaults to a source seeded with 1.
func WithRandom(rng core.Random) Option {
	return func(s *Scene) { s.rng = rng }
}

// WithSink sets where event lines are written.
func WithSink(sink Sink) Option {
	return func(s *Scene) { s.sink = sink }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scene) { s.logger = logger }
}

// WithCullPolicy sets the cull policy.
func WithCullPolicy(p CullPolicy) Option {
	return func(s *Scene) { s.policy = p }
}

// WithMaxAttempts bounds rejection sampling per shape.
func WithMaxAttempts(n int) Option {
	return func(s *Scene) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRemovalHook registers a callback for committed removals.
func WithRemovalHook(fn RemovalFunc) Option {
	return func(s *Scene) { s.onRemove = fn }
}

// New creates an empty scene whose shapes must stay inside clamp.
func New(clamp core.BoundingBox, opts ...Option) *Scene {
	s := &Scene{
		clamp:       clamp,
		rng:         core.NewRandom(1),
		sink:        Discard,
		logger:      log.New(io.Discard),
		policy:      CullKeepFirst,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clamp returns the boundary shapes are kept inside.
func (s *Scene) Clamp() core.BoundingBox {
	return s.clamp
}

// Phase returns the lifecycle state.
func (s *Scene) Phase() Phase {
	return s.phase
}

// NumShapes returns the number of shapes still in the scene.
func (s *Scene) NumShapes() int {
	return len(s.shapes)
}

// Shapes returns copies of the current shapes in insertion order.
func (s *Scene) Shapes() []shape.Shape {
	out := make([]shape.Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = *sh
	}
	return out
}

// Add places a prepared shape into the scene, assigning it the next id.
// The shape must already be enclosed by the clamp boundary.
func (s *Scene) Add(sh *shape.Shape) error {
	box, err := sh.BoundingBox()
	if err != nil {
		return err
	}
	if !s.clamp.Encloses(box) {
		return fmt.Errorf("scene: %s at %s: %w", sh, box, core.ErrShapeTooLarge)
	}
	sh.ID = s.nextID
	s.nextID++
	s.shapes = append(s.shapes, sh)
	if s.phase == PhaseUninitialized {
		s.phase = PhasePopulated
	}
	return nil
}

// GenerateInitialShapes creates count shapes of random kind and size, each
// dimension drawn from [0, maxDimension], and places every one at a random
// position where it is fully enclosed by the clamp boundary.
func (s *Scene) GenerateInitialShapes(count int, maxDimension float64) error {
	if s.phase != PhaseUninitialized {
		return ErrAlreadyPopulated
	}

	// Nothing is committed until every shape is placed, so a failed call
	// leaves the scene empty and a retry starts over.
	generated := make([]*shape.Shape, 0, count)
	for i := 0; i < count; i++ {
		var sh *shape.Shape
		if s.rng.Intn(2) == 0 {
			sh = shape.NewSquare(s.rng.Uniform(0, maxDimension), s.rng.Uniform(0, maxDimension))
		} else {
			sh = shape.NewCircle(s.rng.Uniform(0, maxDimension))
		}
		sh.ID = s.nextID + i

		if err := s.place(sh); err != nil {
			return err
		}
		generated = append(generated, sh)
	}

	s.shapes = append(s.shapes, generated...)
	s.nextID += count
	s.phase = PhasePopulated
	s.logger.Debug("generated shapes", "count", count, "max_dimension", maxDimension)
	return nil
}

// place draws positions uniformly inside the clamp until one is accepted.
func (s *Scene) place(sh *shape.Shape) error {
	half, err := sh.HalfExtents()
	if err != nil {
		return err
	}
	if !s.clamp.Fits(half.Mul(2)) {
		return fmt.Errorf("scene: placing %s in %s: %w", sh, s.clamp, core.ErrShapeTooLarge)
	}

	ll, ur := s.clamp.LowerLeft(), s.clamp.UpperRight()
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		pos := mgl64.Vec2{s.rng.Uniform(ll.X(), ur.X()), s.rng.Uniform(ll.Y(), ur.Y())}
		if sh.SetPosition(pos, s.clamp) {
			return nil
		}
	}
	return fmt.Errorf("scene: placing %s after %d attempts: %w", sh, s.maxAttempts, core.ErrPlacementExhausted)
}

// ApplyRandomOffsets moves every shape by a random displacement with each
// component in [-maxOffset, maxOffset]. Displacements that would take a
// shape outside the clamp are redrawn until one is accepted.
func (s *Scene) ApplyRandomOffsets(maxOffset float64) error {
	for _, sh := range s.shapes {
		if err := s.jitter(sh, maxOffset); err != nil {
			return err
		}
	}
	if s.phase == PhasePopulated {
		s.phase = PhaseSettling
	}
	return nil
}

func (s *Scene) jitter(sh *shape.Shape, maxOffset float64) error {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		delta := mgl64.Vec2{s.rng.Uniform(-maxOffset, maxOffset), s.rng.Uniform(-maxOffset, maxOffset)}
		if sh.OffsetPositionBy(delta, s.clamp) {
			return nil
		}
		if s.logger.GetLevel() <= log.DebugLevel {
			if box, err := sh.BoundingBox(); err == nil {
				s.logger.Debug("offset rejected", "shape", sh.ID, "state", s.clamp.Enclosure(box.Offset(delta)))
			}
		}
	}
	return fmt.Errorf("scene: offsetting %s after %d attempts: %w", sh, s.maxAttempts, core.ErrPlacementExhausted)
}

type cullEvent struct {
	survivor, removed int
}

// CullOverlapping scans every ordered pair of live shapes and removes the
// ones that intersect according to the cull policy. Each intersection is
// reported as one line. It returns whether anything was removed.
//
// The scan runs against a keep-set; the shape slice is only compacted once
// the pass is complete, so an intersection error leaves the scene untouched.
func (s *Scene) CullOverlapping() (bool, error) {
	n := len(s.shapes)
	removed := make([]bool, n)
	var events []cullEvent

	for i := 0; i < n; i++ {
		if removed[i] {
			continue
		}
		hit := false
		for j := 0; j < n; j++ {
			if i == j || removed[j] {
				continue
			}
			overlap, err := s.shapes[i].Intersects(s.shapes[j])
			if err != nil {
				return false, fmt.Errorf("scene: cull: %w", err)
			}
			if overlap {
				events = append(events, cullEvent{survivor: i, removed: j})
				removed[j] = true
				hit = true
			}
		}
		if hit && s.policy == CullRemoveBoth {
			removed[i] = true
		}
	}

	for _, e := range events {
		a, b := s.shapes[e.survivor], s.shapes[e.removed]
		s.sink.Linef("%s intersects %s", a, b)
		if s.onRemove != nil {
			s.onRemove(*a, *b)
		}
	}

	kept := s.shapes[:0]
	for i, sh := range s.shapes {
		if !removed[i] {
			kept = append(kept, sh)
		}
	}
	clear(s.shapes[len(kept):])
	s.shapes = kept

	if len(s.shapes) <= 1 && s.phase != PhaseUninitialized {
		s.phase = PhaseTerminal
	} else if s.phase == PhasePopulated {
		s.phase = PhaseSettling
	}

	if len(events) > 0 {
		s.logger.Debug("cull pass", "intersections", len(events), "remaining", len(s.shapes))
	}
	return len(events) > 0, nil
}

// PrintAllShapes writes one "<index>: <shape>" line per shape.
func (s *Scene) PrintAllShapes() {
	for i, sh := range s.shapes {
		s.sink.Linef("%d: %s", i, sh)
	}
}
