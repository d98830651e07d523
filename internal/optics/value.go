// Package optics computes the derived optical and geometric parameters of a
// three-stage X-ray microscope imaging chain (source, beam-shaping condenser,
// sample, zone-plate objective, detector) from a small set of primary inputs.
//
// Every formula operates uniformly on scalar values and on one-dimensional
// parameter sweeps. The engine is a pure function: it holds no state between
// calls, and the caller re-evaluates whenever a primary input changes.
package optics

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Value holds a physical quantity that is either a single number or an
// ordered sweep of numbers. Sweeps of length 1 are normalized to scalars at
// construction, so IsSweep implies a length of at least 2.
type Value struct {
	num   float64
	sweep []float64 // nil when the value is a scalar
}

// Scalar returns a single-valued Value.
func Scalar(v float64) Value {
	return Value{num: v}
}

// Sweep returns a sweep-valued Value. The input slice is copied. A slice of
// length 1 collapses to a scalar; an empty slice becomes Scalar(0).
func Sweep(vs []float64) Value {
	switch len(vs) {
	case 0:
		return Scalar(0)
	case 1:
		return Scalar(vs[0])
	}
	cp := make([]float64, len(vs))
	copy(cp, vs)
	return Value{sweep: cp}
}

// IsSweep reports whether the value holds an ordered sweep.
func (v Value) IsSweep() bool {
	return v.sweep != nil
}

// Len returns the number of samples: 1 for scalars.
func (v Value) Len() int {
	if v.sweep == nil {
		return 1
	}
	return len(v.sweep)
}

// At returns sample i. Scalars broadcast: any index returns the scalar.
func (v Value) At(i int) float64 {
	if v.sweep == nil {
		return v.num
	}
	return v.sweep[i]
}

// Float returns the scalar value, or the first sample of a sweep.
func (v Value) Float() float64 {
	return v.At(0)
}

// Values returns all samples as a fresh slice.
func (v Value) Values() []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// Scale returns the value multiplied by a constant factor. Used at the
// display boundary to convert internal SI units to display units.
func (v Value) Scale(factor float64) Value {
	return lift1(v, func(x float64) float64 { return x * factor })
}

// broadcast expands a scalar to a sweep of length n repeating the value.
// Sweeps pass through unchanged.
func (v Value) broadcast(n int) Value {
	if v.sweep != nil || n < 2 {
		return v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v.num
	}
	return Value{sweep: out}
}

// HasNaN reports whether any sample is NaN. NaN marks sweep samples
// invalidated by a domain or feasibility error.
func (v Value) HasNaN() bool {
	for i := 0; i < v.Len(); i++ {
		if math.IsNaN(v.At(i)) {
			return true
		}
	}
	return false
}

// String renders scalars as a plain number and sweeps as a comma-separated
// bracket list, the same form the input parser accepts, so a rendered value
// pasted back into a parameter field parses again.
func (v Value) String() string {
	if v.sweep == nil {
		return fmt.Sprintf("%g", v.num)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v.sweep {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", x)
	}
	sb.WriteByte(']')
	return sb.String()
}

// MarshalJSON encodes scalars as a number and sweeps as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.sweep == nil {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(nil)
		}
		return json.Marshal(v.num)
	}
	return json.Marshal(v.sweep)
}

// UnmarshalJSON accepts a number, an array of numbers, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Scalar(num)
		return nil
	}
	var seq []float64
	if err := json.Unmarshal(data, &seq); err == nil {
		*v = Sweep(seq)
		return nil
	}
	var null any
	if err := json.Unmarshal(data, &null); err == nil && null == nil {
		*v = Scalar(math.NaN())
		return nil
	}
	return fmt.Errorf("value must be a number or an array of numbers")
}

// lift1 applies f elementwise.
func lift1(a Value, f func(float64) float64) Value {
	if !a.IsSweep() {
		return Scalar(f(a.num))
	}
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = f(a.At(i))
	}
	return Value{sweep: out}
}

// lift2 combines two values elementwise, broadcasting scalars up to the
// sweep length. Evaluate verifies up front that all sweeps in one call share
// a single length, so lift2 never sees two sweeps of different lengths.
func lift2(a, b Value, f func(x, y float64) float64) Value {
	n := a.Len()
	if b.Len() > n {
		n = b.Len()
	}
	if n == 1 {
		return Scalar(f(a.num, b.num))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = f(a.At(i), b.At(i))
	}
	return Value{sweep: out}
}

// lift3 combines three values elementwise with scalar broadcasting.
func lift3(a, b, c Value, f func(x, y, z float64) float64) Value {
	n := a.Len()
	if b.Len() > n {
		n = b.Len()
	}
	if c.Len() > n {
		n = c.Len()
	}
	if n == 1 {
		return Scalar(f(a.num, b.num, c.num))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = f(a.At(i), b.At(i), c.At(i))
	}
	return Value{sweep: out}
}

// Flag is the boolean counterpart of Value: a single diagnostic or a sweep
// of diagnostics matching the sweep length of the values it was derived from.
type Flag struct {
	ok    bool
	sweep []bool // nil when the flag is a scalar
}

// ScalarFlag returns a single-valued Flag.
func ScalarFlag(ok bool) Flag {
	return Flag{ok: ok}
}

// SweepFlag returns a sweep-valued Flag. The input slice is copied and a
// length-1 slice collapses to a scalar, mirroring Sweep.
func SweepFlag(oks []bool) Flag {
	switch len(oks) {
	case 0:
		return ScalarFlag(false)
	case 1:
		return ScalarFlag(oks[0])
	}
	cp := make([]bool, len(oks))
	copy(cp, oks)
	return Flag{sweep: cp}
}

// IsSweep reports whether the flag holds an ordered sweep.
func (f Flag) IsSweep() bool {
	return f.sweep != nil
}

// Len returns the number of samples: 1 for scalars.
func (f Flag) Len() int {
	if f.sweep == nil {
		return 1
	}
	return len(f.sweep)
}

// At returns sample i. Scalars broadcast.
func (f Flag) At(i int) bool {
	if f.sweep == nil {
		return f.ok
	}
	return f.sweep[i]
}

// Bool returns the scalar flag, or the first sample of a sweep.
func (f Flag) Bool() bool {
	return f.At(0)
}

// Bools returns all samples as a fresh slice.
func (f Flag) Bools() []bool {
	out := make([]bool, f.Len())
	for i := range out {
		out[i] = f.At(i)
	}
	return out
}

// broadcast expands a scalar to a sweep of length n repeating the flag.
// Sweeps pass through unchanged.
func (f Flag) broadcast(n int) Flag {
	if f.sweep != nil || n < 2 {
		return f
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = f.ok
	}
	return Flag{sweep: out}
}

// All reports whether every sample is true.
func (f Flag) All() bool {
	for i := 0; i < f.Len(); i++ {
		if !f.At(i) {
			return false
		}
	}
	return true
}

// And combines two flags elementwise with scalar broadcasting.
func (f Flag) And(g Flag) Flag {
	n := f.Len()
	if g.Len() > n {
		n = g.Len()
	}
	if n == 1 {
		return ScalarFlag(f.ok && g.ok)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = f.At(i) && g.At(i)
	}
	return Flag{sweep: out}
}

// compare derives a Flag from two values elementwise. NaN samples compare
// false for every predicate, so invalidated sweep samples never pass a
// validity check.
func compare(a, b Value, pred func(x, y float64) bool) Flag {
	n := a.Len()
	if b.Len() > n {
		n = b.Len()
	}
	if n == 1 {
		return ScalarFlag(pred(a.num, b.num))
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = pred(a.At(i), b.At(i))
	}
	return Flag{sweep: out}
}
