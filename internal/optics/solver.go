package optics

import (
	"fmt"
	"math"
)

// WorkingDistance solves the thin-lens two-conjugate-plane condition
//
//	1/f = 1/s1 + 1/s2,  s1 + s2 = d
//
// for the near-side distance s1, given the total separation d and the focal
// length f. The returned root is the physically meaningful one:
//
//	s1 = d/2 - sqrt(d^2/4 - d*f)
//
// The far side follows as s2 = d - s1. For d = 4f the discriminant is zero
// and s1 = d/2 exactly.
//
// When d < 4f no real solution exists. Scalar inputs return ErrInfeasible.
// Sweep inputs are solved per sample: infeasible samples become NaN and are
// reported false in the feasibility flag, and ErrInfeasible is returned only
// if no sample is feasible.
func WorkingDistance(d, f Value) (s1 Value, feasible Flag, err error) {
	n := d.Len()
	if f.Len() > n {
		n = f.Len()
	}

	if n == 1 {
		root, ok := solveNear(d.Float(), f.Float())
		if !ok {
			return Scalar(math.NaN()), ScalarFlag(false),
				fmt.Errorf("working distance for d=%g, f=%g: %w", d.Float(), f.Float(), ErrInfeasible)
		}
		return Scalar(root), ScalarFlag(true), nil
	}

	out := make([]float64, n)
	oks := make([]bool, n)
	anyOK := false
	for i := range out {
		root, ok := solveNear(d.At(i), f.At(i))
		out[i] = root
		oks[i] = ok
		anyOK = anyOK || ok
	}
	if !anyOK {
		return Sweep(out), SweepFlag(oks),
			fmt.Errorf("working distance: all %d sweep samples: %w", n, ErrInfeasible)
	}
	return Sweep(out), SweepFlag(oks), nil
}

// solveNear returns the near-side root for a single sample. The second
// return is false when the discriminant is negative (d < 4f) or either input
// is NaN (a sample already invalidated upstream).
func solveNear(d, f float64) (float64, bool) {
	disc := d*d/4 - d*f
	if disc < 0 || math.IsNaN(disc) {
		return math.NaN(), false
	}
	return d/2 - math.Sqrt(disc), true
}
