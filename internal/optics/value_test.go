package optics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_NormalizesLengthOne(t *testing.T) {
	v := Sweep([]float64{3.5})
	assert.False(t, v.IsSweep())
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, 3.5, v.Float())
}

func TestSweep_CopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	v := Sweep(src)
	src[0] = 99
	assert.Equal(t, 1.0, v.At(0))
}

func TestValue_ScalarBroadcastsOnAt(t *testing.T) {
	v := Scalar(7)
	assert.Equal(t, 7.0, v.At(0))
	assert.Equal(t, 7.0, v.At(5))
}

func TestLift2_BroadcastsScalarOverSweep(t *testing.T) {
	sum := lift2(Sweep([]float64{1, 2, 3}), Scalar(10), func(x, y float64) float64 { return x + y })
	assert.Equal(t, []float64{11, 12, 13}, sum.Values())

	sum = lift2(Scalar(10), Sweep([]float64{1, 2, 3}), func(x, y float64) float64 { return x + y })
	assert.Equal(t, []float64{11, 12, 13}, sum.Values())
}

func TestLift3_SweepInAnyPosition(t *testing.T) {
	f := func(x, y, z float64) float64 { return x*y + z }
	got := lift3(Scalar(2), Sweep([]float64{1, 2}), Scalar(1), f)
	assert.Equal(t, []float64{3, 5}, got.Values())
}

func TestValue_Scale(t *testing.T) {
	assert.Equal(t, 1500.0, Scalar(1.5).Scale(1e3).Float())
	assert.Equal(t, []float64{10, 20}, Sweep([]float64{1, 2}).Scale(10).Values())
}

func TestValue_JSONRoundTrip(t *testing.T) {
	for _, v := range []Value{Scalar(2.5), Sweep([]float64{1, 2, 3})} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var back Value
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, v.Values(), back.Values())
		assert.Equal(t, v.IsSweep(), back.IsSweep())
	}
}

func TestValue_JSONScalarIsBareNumber(t *testing.T) {
	data, err := json.Marshal(Scalar(12))
	require.NoError(t, err)
	assert.Equal(t, "12", string(data))
}

func TestValue_HasNaN(t *testing.T) {
	assert.False(t, Sweep([]float64{1, 2}).HasNaN())
	assert.True(t, Sweep([]float64{1, math.NaN()}).HasNaN())
}

func TestFlag_AndBroadcasts(t *testing.T) {
	f := SweepFlag([]bool{true, false, true}).And(ScalarFlag(true))
	assert.Equal(t, []bool{true, false, true}, f.Bools())

	g := ScalarFlag(false).And(SweepFlag([]bool{true, true, true}))
	assert.Equal(t, []bool{false, false, false}, g.Bools())
}

func TestFlag_All(t *testing.T) {
	assert.True(t, SweepFlag([]bool{true, true}).All())
	assert.False(t, SweepFlag([]bool{true, false}).All())
}

func TestCompare_NaNIsNeverValid(t *testing.T) {
	f := compare(Sweep([]float64{math.NaN(), 200}), Scalar(100), func(x, y float64) bool { return x > y })
	assert.Equal(t, []bool{false, true}, f.Bools())
}
