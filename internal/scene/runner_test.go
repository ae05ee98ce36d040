package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/scatter/internal/core"
)

func TestRunnerRun(t *testing.T) {
	sink := NewMemorySink()
	r := NewRunner(DefaultSettings(), 42, sink, nil)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Done())

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, int64(42), sum.Seed)
	assert.Equal(t, 50, sum.Initial)
	assert.Equal(t, r.Scene().NumShapes(), sum.Remaining)
	assert.LessOrEqual(t, sum.Iterations, 10)
	assert.Positive(t, sum.Iterations)
	assert.Equal(t, sum.Initial-sum.Remaining, len(sum.Removals), "keep-first removes one shape per event")
	if sum.Iterations < 10 {
		assert.LessOrEqual(t, sum.Remaining, 1)
	}

	lines := sink.Lines()
	require.Greater(t, len(lines), 52)
	assert.Equal(t, "BOUNDARY: [[0,0],[100,100]]", lines[0])
	assert.Equal(t, "INITIAL SHAPES:", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "0: "))
	assert.Equal(t, "ITERATION: 1", lines[52])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Shapes remaining: "))
}

func TestRunnerDeterministic(t *testing.T) {
	settings := DefaultSettings()
	settings.Count = 80
	settings.MaxDimension = 8

	sinkA, sinkB := NewMemorySink(), NewMemorySink()
	a, err := NewRunner(settings, 1234, sinkA, nil).Run(context.Background())
	require.NoError(t, err)
	b, err := NewRunner(settings, 1234, sinkB, nil).Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Remaining, b.Remaining)
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Equal(t, a.Removals, b.Removals)
	assert.Equal(t, sinkA.Lines(), sinkB.Lines())
}

func TestRunnerRemovalIterations(t *testing.T) {
	settings := DefaultSettings()
	settings.Count = 80
	settings.MaxDimension = 8

	sum, err := NewRunner(settings, 5, nil, nil).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sum.Removals)
	for _, rm := range sum.Removals {
		assert.GreaterOrEqual(t, rm.Iteration, 1)
		assert.LessOrEqual(t, rm.Iteration, sum.Iterations)
		assert.NotEmpty(t, rm.Survivor)
		assert.NotEmpty(t, rm.Removed)
	}
}

func TestRunnerSingleShapeFinishesImmediately(t *testing.T) {
	settings := DefaultSettings()
	settings.Count = 1

	r := NewRunner(settings, 9, nil, nil)
	require.NoError(t, r.Start())
	assert.True(t, r.Done())

	sum := r.Summary()
	assert.Equal(t, 0, sum.Iterations)
	assert.Equal(t, 1, sum.Remaining)
}

func TestRunnerZeroIterations(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxIterations = 0

	r := NewRunner(settings, 3, nil, nil)
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Iterations)
	assert.Equal(t, 50, sum.Remaining)

	done, err := r.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 0, r.Iteration())
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(DefaultSettings(), 3, nil, nil)
	sum, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Iterations)
	assert.Equal(t, 50, sum.Initial)
	assert.True(t, r.Done())
}

func TestRunnerStepBeforeStart(t *testing.T) {
	r := NewRunner(DefaultSettings(), 3, nil, nil)
	_, err := r.Step()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestRunnerStepwise(t *testing.T) {
	r := NewRunner(DefaultSettings(), 77, nil, nil)
	require.NoError(t, r.Start())
	assert.Equal(t, PhasePopulated, r.Scene().Phase())

	done, err := r.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Iteration())
	assert.Equal(t, done, r.Done())
}

func TestRunnerGenerateError(t *testing.T) {
	settings := DefaultSettings()
	settings.Boundary = core.Box(0, 0, 1, 1)
	settings.MaxDimension = 100

	r := NewRunner(settings, 3, nil, nil)
	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrShapeTooLarge)
	assert.True(t, r.Done())
}

func TestRunnerResolvesZeroSeed(t *testing.T) {
	r := NewRunner(DefaultSettings(), 0, nil, nil)
	assert.NotZero(t, r.Seed())
}
