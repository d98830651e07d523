package optics

import "errors"

// ErrDomain marks a computation rejected because a primary input lies outside
// the physical domain of a formula (zero or negative where a positive
// magnitude is required, or mismatched sweep lengths).
var ErrDomain = errors.New("input outside physical domain")

// ErrInfeasible marks a working-distance solve with no real solution: the
// total conjugate-plane separation is shorter than four focal lengths, so the
// lens cannot image across it. For sweeps the error is only returned when
// every sample is infeasible; isolated infeasible samples are marked NaN and
// recorded in the feasibility flag instead.
var ErrInfeasible = errors.New("geometry infeasible: total distance below four focal lengths")
