package optics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingDistance_ScalarFeasible(t *testing.T) {
	// d = 1 m, f = 0.1 m: s1 = 0.5 - sqrt(0.25 - 0.1)
	s1, feasible, err := WorkingDistance(Scalar(1), Scalar(0.1))
	require.NoError(t, err)
	assert.True(t, feasible.Bool())

	want := 0.5 - math.Sqrt(0.15)
	assert.InDelta(t, want, s1.Float(), 1e-12)

	// Both conjugate distances must satisfy the thin-lens equation.
	s2 := 1 - s1.Float()
	assert.InDelta(t, 1/0.1, 1/s1.Float()+1/s2, 1e-9)
}

func TestWorkingDistance_DegenerateRoot(t *testing.T) {
	// d = 4f is the shortest total distance that still images: s1 = d/2 exactly.
	s1, feasible, err := WorkingDistance(Scalar(0.4), Scalar(0.1))
	require.NoError(t, err)
	assert.True(t, feasible.Bool())
	assert.Equal(t, 0.2, s1.Float())
}

func TestWorkingDistance_ScalarInfeasible(t *testing.T) {
	_, feasible, err := WorkingDistance(Scalar(0.39), Scalar(0.1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.False(t, feasible.Bool())
}

func TestWorkingDistance_SweepPartialInfeasible(t *testing.T) {
	// One infeasible sample must not abort the sweep.
	d := Sweep([]float64{0.2, 0.5, 1.0})
	s1, feasible, err := WorkingDistance(d, Scalar(0.1))
	require.NoError(t, err)

	assert.Equal(t, 3, s1.Len())
	assert.True(t, math.IsNaN(s1.At(0)))
	assert.False(t, feasible.At(0))
	assert.True(t, feasible.At(1))
	assert.True(t, feasible.At(2))
	assert.InDelta(t, 0.25-math.Sqrt(0.0625-0.05), s1.At(1), 1e-12)
}

func TestWorkingDistance_SweepAllInfeasible(t *testing.T) {
	d := Sweep([]float64{0.1, 0.2})
	_, feasible, err := WorkingDistance(d, Scalar(0.1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.False(t, feasible.At(0))
	assert.False(t, feasible.At(1))
}

func TestWorkingDistance_SweptFocalLength(t *testing.T) {
	s1, feasible, err := WorkingDistance(Scalar(1), Sweep([]float64{0.05, 0.1, 0.2}))
	require.NoError(t, err)
	assert.True(t, feasible.All())
	assert.Equal(t, 3, s1.Len())
	for i, f := range []float64{0.05, 0.1, 0.2} {
		assert.InDelta(t, 0.5-math.Sqrt(0.25-f), s1.At(i), 1e-12, "sample %d", i)
	}
}
