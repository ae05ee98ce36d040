package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/shape"
)

// ErrNotStarted is returned when Step is called before Start.
var ErrNotStarted = errors.New("scene: runner not started")

// Settings holds everything a Runner needs to drive one simulation.
type Settings struct {
	Boundary      core.BoundingBox
	Count         int
	MaxDimension  float64
	MaxIterations int
	MaxOffset     float64
	MaxAttempts   int
	Policy        CullPolicy
}

// DefaultSettings mirrors the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Boundary:      core.Box(0, 0, 100, 100),
		Count:         50,
		MaxDimension:  5,
		MaxIterations: 10,
		MaxOffset:     2,
		MaxAttempts:   DefaultMaxAttempts,
		Policy:        CullKeepFirst,
	}
}

// Removal records one shape culled during an iteration.
type Removal struct {
	Iteration int
	Survivor  string
	Removed   string
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	RunID      string
	Seed       int64
	Initial    int
	Remaining  int
	Iterations int
	Removals   []Removal
	Duration   time.Duration
}

// Runner drives a scene through generation and its settle iterations.
type Runner struct {
	settings  Settings
	seed      int64
	sink      Sink
	logger    *log.Logger
	scene     *Scene
	runID     string
	iteration int
	initial   int
	removals  []Removal
	started   time.Time
	elapsed   time.Duration
	done      bool
}

// NewRunner creates a runner. A zero seed is replaced with the current time
// so every run remains reproducible from its summary.
func NewRunner(settings Settings, seed int64, sink Sink, logger *log.Logger) *Runner {
	if sink == nil {
		sink = Discard
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		settings: settings,
		seed:     core.ResolveSeed(seed),
		sink:     sink,
		logger:   logger,
		runID:    uuid.NewString(),
	}
}

// Seed returns the concrete seed of this run.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Scene returns the underlying scene, or nil before Start.
func (r *Runner) Scene() *Scene {
	return r.scene
}

// Iteration returns the number of completed iterations.
func (r *Runner) Iteration() int {
	return r.iteration
}

// Done reports whether the run has finished.
func (r *Runner) Done() bool {
	return r.done
}

// Start builds the scene and generates the initial shapes.
func (r *Runner) Start() error {
	r.started = time.Now()
	r.scene = New(r.settings.Boundary,
		WithRandom(core.NewRandom(r.seed)),
		WithSink(r.sink),
		WithLogger(r.logger),
		WithCullPolicy(r.settings.Policy),
		WithMaxAttempts(r.settings.MaxAttempts),
		WithRemovalHook(r.recordRemoval),
	)

	r.sink.Linef("BOUNDARY: %s", r.settings.Boundary)
	if err := r.scene.GenerateInitialShapes(r.settings.Count, r.settings.MaxDimension); err != nil {
		r.done = true
		return fmt.Errorf("generate shapes: %w", err)
	}
	r.initial = r.scene.NumShapes()

	r.sink.Linef("INITIAL SHAPES:")
	r.scene.PrintAllShapes()

	r.logger.Info("run started", "run_id", r.runID, "seed", r.seed, "shapes", r.initial)
	if r.settings.MaxIterations <= 0 || r.initial <= 1 {
		r.finish()
	}
	return nil
}

func (r *Runner) recordRemoval(survivor, removed shape.Shape) {
	r.removals = append(r.removals, Removal{
		Iteration: r.iteration,
		Survivor:  survivor.String(),
		Removed:   removed.String(),
	})
}

// Step runs a single iteration: offset every shape, then cull. It returns
// true once the run is over.
func (r *Runner) Step() (bool, error) {
	if r.scene == nil {
		return false, ErrNotStarted
	}
	if r.done {
		return true, nil
	}

	r.iteration++
	r.sink.Linef("ITERATION: %d", r.iteration)

	if err := r.scene.ApplyRandomOffsets(r.settings.MaxOffset); err != nil {
		r.done = true
		return true, fmt.Errorf("iteration %d: %w", r.iteration, err)
	}
	if _, err := r.scene.CullOverlapping(); err != nil {
		r.done = true
		return true, fmt.Errorf("iteration %d: %w", r.iteration, err)
	}

	remaining := r.scene.NumShapes()
	r.sink.Linef("Shapes remaining: %d", remaining)

	if remaining <= 1 || r.iteration >= r.settings.MaxIterations {
		r.finish()
	}
	return r.done, nil
}

func (r *Runner) finish() {
	r.done = true
	r.elapsed = time.Since(r.started)
	r.logger.Info("run finished", "run_id", r.runID, "iterations", r.iteration,
		"remaining", r.scene.NumShapes(), "duration", r.elapsed)
}

// Run starts the scene and steps it until the run is over or ctx is done.
// The summary is valid even when an error is returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.Start(); err != nil {
		return r.Summary(), err
	}

	for !r.done {
		select {
		case <-ctx.Done():
			r.finish()
			return r.Summary(), ctx.Err()
		default:
		}

		if _, err := r.Step(); err != nil {
			return r.Summary(), err
		}
	}

	return r.Summary(), nil
}

// Summary captures the current state of the run.
func (r *Runner) Summary() Summary {
	remaining := 0
	if r.scene != nil {
		remaining = r.scene.NumShapes()
	}
	duration := r.elapsed
	if !r.done && !r.started.IsZero() {
		duration = time.Since(r.started)
	}
	removals := make([]Removal, len(r.removals))
	copy(removals, r.removals)

	return Summary{
		RunID:      r.runID,
		Seed:       r.seed,
		Initial:    r.initial,
		Remaining:  remaining,
		Iterations: r.iteration,
		Removals:   removals,
		Duration:   duration,
	}
}
