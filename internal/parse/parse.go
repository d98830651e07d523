// Package parse turns the textual input of a parameter field into an engine
// value. Accepted forms are plain numbers, comma lists in brackets, the
// colon shorthand start:stop[:step], and the range expressions
// range/arange(start,stop[,step]) and linspace(start,stop[,n]). A
// numpy-style "np." or "numpy." prefix on range expressions is tolerated
// for muscle-memory compatibility.
package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// ErrParse marks malformed textual input to a primary parameter.
var ErrParse = errors.New("cannot parse parameter input")

// defaultLinspaceN is the sample count of linspace(start,stop) without an
// explicit third argument.
const defaultLinspaceN = 50

// Value parses a parameter input string in display units.
func Value(input string) (optics.Value, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return optics.Value{}, fmt.Errorf("empty input: %w", ErrParse)
	}

	if isBracketed(s) {
		return parseList(s[1 : len(s)-1])
	}

	expr := s
	expr = strings.TrimPrefix(expr, "np.")
	expr = strings.TrimPrefix(expr, "numpy.")
	switch {
	case strings.HasPrefix(expr, "r_["):
		if !strings.HasSuffix(expr, "]") {
			return optics.Value{}, fmt.Errorf("unterminated %q: %w", s, ErrParse)
		}
		return parseList(expr[len("r_[") : len(expr)-1])
	case strings.HasPrefix(expr, "arange"):
		return parseRange(expr[len("arange"):], s)
	case strings.HasPrefix(expr, "range"):
		return parseRange(expr[len("range"):], s)
	case strings.HasPrefix(expr, "linspace"):
		return parseLinspace(expr[len("linspace"):], s)
	}

	if strings.Contains(s, ":") {
		return parseColonRange(s)
	}

	num, err := parseFloat(s)
	if err != nil {
		return optics.Value{}, err
	}
	return optics.Scalar(num), nil
}

// isBracketed reports whether s is enclosed in list brackets. Mismatched
// bracket styles like "[1,2)" are accepted, matching the loose historical
// input format.
func isBracketed(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '[' || first == '(') && (last == ']' || last == ')')
}

func parseFloat(s string) (float64, error) {
	num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", s, ErrParse)
	}
	return num, nil
}

func parseList(body string) (optics.Value, error) {
	parts := strings.Split(body, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		num, err := parseFloat(p)
		if err != nil {
			return optics.Value{}, err
		}
		vals = append(vals, num)
	}
	return optics.Sweep(vals), nil
}

// parseArgs extracts the comma-separated numeric arguments of a
// "(a,b[,c])" suffix.
func parseArgs(suffix, full string) ([]float64, error) {
	suffix = strings.TrimSpace(suffix)
	if len(suffix) < 2 || suffix[0] != '(' || suffix[len(suffix)-1] != ')' {
		return nil, fmt.Errorf("%q needs parenthesized arguments: %w", full, ErrParse)
	}
	parts := strings.Split(suffix[1:len(suffix)-1], ",")
	args := make([]float64, 0, len(parts))
	for _, p := range parts {
		num, err := parseFloat(p)
		if err != nil {
			return nil, err
		}
		args = append(args, num)
	}
	return args, nil
}

// parseRange builds start, start+step, ... with the stop value excluded.
func parseRange(suffix, full string) (optics.Value, error) {
	args, err := parseArgs(suffix, full)
	if err != nil {
		return optics.Value{}, err
	}
	return rangeValue(args, full)
}

// parseColonRange accepts the shorthand start:stop[:step], with the same
// stop-exclusive semantics as range().
func parseColonRange(s string) (optics.Value, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return optics.Value{}, fmt.Errorf("%q needs start:stop or start:stop:step: %w", s, ErrParse)
	}
	args := make([]float64, 0, len(parts))
	for _, p := range parts {
		num, err := parseFloat(p)
		if err != nil {
			return optics.Value{}, err
		}
		args = append(args, num)
	}
	return rangeValue(args, s)
}

func rangeValue(args []float64, full string) (optics.Value, error) {
	var start, stop, step float64
	switch len(args) {
	case 2:
		start, stop, step = args[0], args[1], 1
	case 3:
		start, stop, step = args[0], args[1], args[2]
	default:
		return optics.Value{}, fmt.Errorf("%q needs 2 or 3 arguments: %w", full, ErrParse)
	}
	if step == 0 || (stop-start)*step < 0 {
		return optics.Value{}, fmt.Errorf("%q never reaches its stop value: %w", full, ErrParse)
	}

	n := int(math.Ceil((stop - start) / step))
	if n < 1 {
		return optics.Value{}, fmt.Errorf("%q produces no samples: %w", full, ErrParse)
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	return optics.Sweep(vals), nil
}

func parseLinspace(suffix, full string) (optics.Value, error) {
	args, err := parseArgs(suffix, full)
	if err != nil {
		return optics.Value{}, err
	}

	var start, stop float64
	n := defaultLinspaceN
	switch len(args) {
	case 2:
		start, stop = args[0], args[1]
	case 3:
		start, stop = args[0], args[1]
		n = int(args[2])
		if float64(n) != args[2] || n < 2 {
			return optics.Value{}, fmt.Errorf("%q sample count must be an integer >= 2: %w", full, ErrParse)
		}
	default:
		return optics.Value{}, fmt.Errorf("%q needs 2 or 3 arguments: %w", full, ErrParse)
	}

	vals := floats.Span(make([]float64, n), start, stop)
	// Span accumulates start + i*step, which can miss the stop value by an
	// ulp. The endpoint is part of the contract, so pin it.
	vals[n-1] = stop
	return optics.Sweep(vals), nil
}
