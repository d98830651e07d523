package optics

import (
	"fmt"
	"math"
)

// hc is the photon energy-to-wavelength product in keV*m: a photon of energy
// E keV has wavelength hc/E metres.
const hc = 12.398e-10

// DefaultSourceDistance is the source-to-sample separation of the beamline
// in metres, used when Params.SourceDistance is zero.
const DefaultSourceDistance = 65

// Params holds the primary inputs of the imaging chain, in SI-equivalent
// internal units. Each quantity is scalar or a sweep; at most one parameter
// should sweep at a time (the caller enforces this, the engine broadcasts
// and diagnoses length mismatches).
//
// The driving inputs of the two mode-bearing stages (effective pixel size or
// sample-detector distance, explicit central stop size) are not part of
// Params; they ride inside the DetectorMode and StopMode values passed to
// Evaluate.
type Params struct {
	// Beamline and zone-plate objective (FZP)
	Energy       Value `json:"energy"`    // keV
	Bandwidth    Value `json:"bandwidth"` // relative, dimensionless
	FZPZoneWidth Value `json:"fzp_dr"`    // outermost zone width, m
	FZPDiameter  Value `json:"fzp_d"`     // m

	// Detector
	DetMagnification Value `json:"m_det"`        // visible-light magnification
	DetPixelSize     Value `json:"det_pix_size"` // m
	DetPixelsHor     Value `json:"det_n_hor"`
	DetPixelsVert    Value `json:"det_n_vert"`

	// Beam-shaping condenser (BSC)
	BSCDiameter  Value `json:"bsc_d"`     // m
	BSCZoneWidth Value `json:"bsc_dr"`    // outermost zone width, m
	BSCFieldSize Value `json:"bsc_field"` // illumination field size, m

	// SourceDistance is the source-to-sample separation in m.
	// Zero selects DefaultSourceDistance.
	SourceDistance float64 `json:"source_dist,omitempty"`

	// LegacyBSCFocal reproduces the historical behaviour of computing the
	// condenser focal length from the objective zone width instead of the
	// condenser's own zone width.
	LegacyBSCFocal bool `json:"legacy_bsc_focal,omitempty"`
}

// Results holds every derived quantity of one evaluation, plus the echoed
// primary values, all in internal SI units. When any input sweeps with
// length N, every derived quantity is a sweep of length N.
type Results struct {
	Params Params // echoed primary inputs

	// Stage 1: source and objective
	Wavelength      Value // m
	FZPResolution   Value // m
	FZPObjectNA     Value
	FZPDepthOfFocus Value // m
	FZPZoneCount    Value
	FZPFocalLength  Value // m

	// Stage 2: detector geometry
	MTotal             Value
	MXray              Value
	DistSampleFZP      Value // m
	DistFZPDetector    Value // m
	DistSampleDetector Value // m
	EffPixelSize       Value // m
	DetFOVHor          Value // m
	DetFOVVert         Value // m
	FZPImageNA         Value
	FZPAngularFOV      Value // rad
	FZPFieldOfView     Value // m

	// Stage 3: condenser
	BSCFocalLength  Value // m
	BSCZoneCount    Value
	DistBSCSample   Value // m
	DistSourceBSC   Value // m
	BSCCentralStop  Value // m
	BSCEffectiveFOV Value // m
	BSCFreeArea     Value // fraction of the condenser aperture, 0..1
	IlluminatedHor  Value // m, min of detector FOV and condenser FOV
	IlluminatedVert Value // m
	TotalEfficiency Value // 0..1

	// Validity diagnostics
	FZPZoneCountOK Flag
	DepthOfFocusOK Flag
	BSCZoneCountOK Flag

	// Feasible is false at sweep samples invalidated by a domain error or an
	// infeasible working-distance solve; derived quantities are NaN there.
	Feasible Flag

	// sanitized inputs, shared across stages: nonpositive sweep samples are
	// already NaN here
	sanBandwidth    Value
	sanFZPZoneWidth Value
	sanFZPDiameter  Value
	sanDetMag       Value
	sanDetPixSize   Value
	sanDetNHor      Value
	sanDetNVert     Value
}

// Evaluate runs the full three-stage calculation and the validity checks.
// It is pure: no state survives between calls, and concurrent calls on
// distinct Params are independent.
//
// Scalar inputs outside the physical domain return an error wrapping
// ErrDomain; a sweep sample outside the domain only invalidates that sample.
// An infeasible working-distance solve returns an error wrapping
// ErrInfeasible for scalar inputs, or when every sweep sample is infeasible.
func Evaluate(p Params, det DetectorMode, stop StopMode) (*Results, error) {
	if det == nil {
		return nil, fmt.Errorf("detector solve mode not set: %w", ErrDomain)
	}
	if stop == nil {
		return nil, fmt.Errorf("central stop solve mode not set: %w", ErrDomain)
	}
	n, err := checkSweepLengths(p, det, stop)
	if err != nil {
		return nil, err
	}

	r := &Results{Params: p, Feasible: ScalarFlag(true)}

	if err := evalStage1(r, p); err != nil {
		return nil, err
	}
	if err := evalStage2(r, p, det); err != nil {
		return nil, err
	}
	if err := evalStage3(r, p, stop); err != nil {
		return nil, err
	}
	evalChecks(r)
	r.broadcast(n)
	return r, nil
}

// broadcast expands every derived quantity and flag to the common sweep
// length, so quantities whose formulas happen not to touch the swept input
// still come back with the sweep's shape.
func (r *Results) broadcast(n int) {
	if n < 2 {
		return
	}
	vals := []*Value{
		&r.Wavelength, &r.FZPResolution, &r.FZPObjectNA, &r.FZPDepthOfFocus,
		&r.FZPZoneCount, &r.FZPFocalLength,
		&r.MTotal, &r.MXray, &r.DistSampleFZP, &r.DistFZPDetector,
		&r.DistSampleDetector, &r.EffPixelSize, &r.DetFOVHor, &r.DetFOVVert,
		&r.FZPImageNA, &r.FZPAngularFOV, &r.FZPFieldOfView,
		&r.BSCFocalLength, &r.BSCZoneCount, &r.DistBSCSample, &r.DistSourceBSC,
		&r.BSCCentralStop, &r.BSCEffectiveFOV, &r.BSCFreeArea,
		&r.IlluminatedHor, &r.IlluminatedVert, &r.TotalEfficiency,
	}
	for _, v := range vals {
		*v = v.broadcast(n)
	}
	flags := []*Flag{&r.FZPZoneCountOK, &r.DepthOfFocusOK, &r.BSCZoneCountOK, &r.Feasible}
	for _, f := range flags {
		*f = f.broadcast(n)
	}
}

// checkSweepLengths verifies that all sweep-valued inputs share one length
// and returns that length (1 when every input is scalar). The
// single-sweep-variable convention makes this the caller's invariant, but a
// violated invariant must surface as an error, not an index panic.
func checkSweepLengths(p Params, det DetectorMode, stop StopMode) (int, error) {
	vals := []Value{
		p.Energy, p.Bandwidth, p.FZPZoneWidth, p.FZPDiameter,
		p.DetMagnification, p.DetPixelSize, p.DetPixelsHor, p.DetPixelsVert,
		p.BSCDiameter, p.BSCZoneWidth, p.BSCFieldSize,
	}
	switch m := det.(type) {
	case EffectivePixelMode:
		vals = append(vals, m.EffPixelSize)
	case TargetDistanceMode:
		vals = append(vals, m.DistSampleDetector)
	}
	if s, ok := stop.(ExplicitStop); ok {
		vals = append(vals, s.Size)
	}

	n := 1
	for _, v := range vals {
		if !v.IsSweep() {
			continue
		}
		if n == 1 {
			n = v.Len()
		} else if v.Len() != n {
			return 0, fmt.Errorf("mismatched sweep lengths %d and %d: %w", n, v.Len(), ErrDomain)
		}
	}
	return n, nil
}

// requirePositive validates an input that must be a positive magnitude.
// A nonpositive scalar is a domain error; nonpositive sweep samples are
// replaced by NaN and cleared in the feasibility flag.
func requirePositive(r *Results, name string, v Value) (Value, error) {
	if !v.IsSweep() {
		if !(v.Float() > 0) {
			return v, fmt.Errorf("%s must be positive, got %g: %w", name, v.Float(), ErrDomain)
		}
		return v, nil
	}
	out := make([]float64, v.Len())
	oks := make([]bool, v.Len())
	for i := range out {
		if x := v.At(i); x > 0 {
			out[i], oks[i] = x, true
		} else {
			out[i] = math.NaN()
		}
	}
	r.Feasible = r.Feasible.And(SweepFlag(oks))
	return Sweep(out), nil
}

func evalStage1(r *Results, p Params) error {
	energy, err := requirePositive(r, "energy", p.Energy)
	if err != nil {
		return err
	}
	bandwidth, err := requirePositive(r, "bandwidth", p.Bandwidth)
	if err != nil {
		return err
	}
	dr, err := requirePositive(r, "FZP zone width", p.FZPZoneWidth)
	if err != nil {
		return err
	}
	diameter, err := requirePositive(r, "FZP diameter", p.FZPDiameter)
	if err != nil {
		return err
	}
	r.sanBandwidth = bandwidth
	r.sanFZPZoneWidth, r.sanFZPDiameter = dr, diameter

	r.Wavelength = lift1(energy, func(e float64) float64 { return hc / e })

	// Resolution is the larger of the diffraction limit and the
	// chromatic-blur limit for the given bandwidth.
	r.FZPResolution = lift3(dr, diameter, bandwidth, func(dr, d, bw float64) float64 {
		return math.Max(1.22*dr, 0.61*math.Sqrt(d*dr*bw))
	})
	r.FZPObjectNA = lift2(r.Wavelength, dr, func(w, dr float64) float64 { return w / (2 * dr) })
	r.FZPDepthOfFocus = lift2(dr, r.Wavelength, func(dr, w float64) float64 { return 2 * dr * dr / w })
	r.FZPZoneCount = lift2(diameter, dr, func(d, dr float64) float64 { return d / (4 * dr) })
	r.FZPFocalLength = lift3(diameter, dr, r.Wavelength, func(d, dr, w float64) float64 { return d * dr / w })
	return nil
}

func evalStage2(r *Results, p Params, det DetectorMode) error {
	mDet, err := requirePositive(r, "detector magnification", p.DetMagnification)
	if err != nil {
		return err
	}
	pixSize, err := requirePositive(r, "detector pixel size", p.DetPixelSize)
	if err != nil {
		return err
	}
	nHor, err := requirePositive(r, "detector pixel count (hor)", p.DetPixelsHor)
	if err != nil {
		return err
	}
	nVert, err := requirePositive(r, "detector pixel count (vert)", p.DetPixelsVert)
	if err != nil {
		return err
	}
	r.sanDetMag, r.sanDetPixSize = mDet, pixSize
	r.sanDetNHor, r.sanDetNVert = nHor, nVert

	switch m := det.(type) {
	case EffectivePixelMode:
		effPix, err := requirePositive(r, "effective pixel size", m.EffPixelSize)
		if err != nil {
			return err
		}
		r.EffPixelSize = effPix
		r.MTotal = lift2(pixSize, effPix, func(p, e float64) float64 { return p / e })
		r.MXray = lift2(r.MTotal, mDet, func(mt, md float64) float64 { return mt / md })
		r.DistSampleFZP = lift2(r.FZPFocalLength, r.MXray, func(f, m float64) float64 {
			return f * (1 + m) / m
		})
		r.DistFZPDetector = lift2(r.FZPFocalLength, r.MXray, func(f, m float64) float64 {
			return f * (1 + m)
		})
		r.DistSampleDetector = lift2(r.DistFZPDetector, r.DistSampleFZP, func(a, b float64) float64 {
			return a + b
		})

	case TargetDistanceMode:
		dist, err := requirePositive(r, "sample-detector distance", m.DistSampleDetector)
		if err != nil {
			return err
		}
		r.DistSampleDetector = dist
		s1, feasible, err := WorkingDistance(dist, r.FZPFocalLength)
		if err != nil {
			return err
		}
		r.Feasible = r.Feasible.And(feasible)
		r.DistSampleFZP = s1
		r.DistFZPDetector = lift2(dist, s1, func(d, s float64) float64 { return d - s })
		r.MXray = lift2(r.DistFZPDetector, r.DistSampleFZP, func(a, b float64) float64 { return a / b })
		r.MTotal = lift2(r.MXray, mDet, func(mx, md float64) float64 { return mx * md })
		r.EffPixelSize = lift2(pixSize, r.MTotal, func(p, m float64) float64 { return p / m })

	default:
		return fmt.Errorf("unknown detector solve mode %T: %w", det, ErrDomain)
	}

	r.DetFOVHor = lift2(r.EffPixelSize, nHor, func(e, n float64) float64 { return e * n })
	r.DetFOVVert = lift2(r.EffPixelSize, nVert, func(e, n float64) float64 { return e * n })
	r.FZPImageNA = lift2(r.sanFZPDiameter, r.DistFZPDetector, func(d, l float64) float64 {
		return d / 2 / l
	})

	// Empirical aberration-limited angular field of view of this optical
	// system. Not a textbook expression; keep it exactly as measured.
	aberrDenom := lift3(r.DistFZPDetector, r.MXray, r.DistSampleFZP, func(ld, m, lo float64) float64 {
		return ld + m*m*lo
	})
	r.FZPAngularFOV = lift3(r.Wavelength, r.FZPImageNA, aberrDenom, func(w, na, den float64) float64 {
		t := w/(5*na*na)/den + 1
		return 2*t*t - 2
	})
	r.FZPFieldOfView = lift2(r.FZPAngularFOV, r.DistSampleFZP, func(a, s float64) float64 {
		return a * 2 * s
	})
	return nil
}

func evalStage3(r *Results, p Params, stop StopMode) error {
	bscD, err := requirePositive(r, "BSC diameter", p.BSCDiameter)
	if err != nil {
		return err
	}
	bscDr, err := requirePositive(r, "BSC zone width", p.BSCZoneWidth)
	if err != nil {
		return err
	}
	field, err := requirePositive(r, "BSC field size", p.BSCFieldSize)
	if err != nil {
		return err
	}

	focalDr := bscDr
	if p.LegacyBSCFocal {
		focalDr = r.sanFZPZoneWidth
	}
	r.BSCFocalLength = lift3(bscD, focalDr, r.Wavelength, func(d, dr, w float64) float64 {
		return d * dr / w
	})
	r.BSCZoneCount = lift2(bscD, bscDr, func(d, dr float64) float64 { return d / (4 * dr) })

	srcDist := p.SourceDistance
	if srcDist == 0 {
		srcDist = DefaultSourceDistance
	}
	if srcDist < 0 {
		return fmt.Errorf("source distance must be positive, got %g: %w", srcDist, ErrDomain)
	}
	s1, feasible, err := WorkingDistance(Scalar(srcDist), r.BSCFocalLength)
	if err != nil {
		return err
	}
	r.Feasible = r.Feasible.And(feasible)
	r.DistBSCSample = s1
	r.DistSourceBSC = lift1(s1, func(s float64) float64 { return srcDist - s })

	switch s := stop.(type) {
	case ExplicitStop:
		size, err := requirePositive(r, "central stop size", s.Size)
		if err != nil {
			return err
		}
		r.BSCCentralStop = size

	case FullDetectorStop:
		// Stop shadow sized to cover the full detector extent, projected
		// back from the detector plane to the condenser-sample distance.
		ratio := lift3(r.DistBSCSample, r.DistSampleDetector, r.sanDetMag,
			func(lb, ld, md float64) float64 { return lb / ld / md })
		csHor := lift3(r.sanDetPixSize, r.sanDetNHor, ratio,
			func(p, n, q float64) float64 { return p * n * q })
		csVert := lift3(r.sanDetPixSize, r.sanDetNVert, ratio,
			func(p, n, q float64) float64 { return p * n * q })
		r.BSCCentralStop = lift2(csHor, csVert, math.Max)

	default:
		return fmt.Errorf("unknown central stop solve mode %T: %w", stop, ErrDomain)
	}

	r.BSCEffectiveFOV = lift3(
		lift2(r.BSCCentralStop, r.DistBSCSample, func(cs, l float64) float64 { return cs / l }),
		r.DistSampleDetector, r.MXray,
		func(q, ld, m float64) float64 { return q * ld / m })

	r.BSCFreeArea = lift2(r.BSCCentralStop, bscD, func(cs, d float64) float64 {
		free := 1 - cs*cs/(math.Pi*(d/2)*(d/2))
		return math.Max(0, free)
	})

	// Coupling efficiency: the illuminated fraction of the field of view per
	// axis, times the unobscured condenser area.
	r.IlluminatedHor = lift2(r.DetFOVHor, r.BSCEffectiveFOV, math.Min)
	r.IlluminatedVert = lift2(r.DetFOVVert, r.BSCEffectiveFOV, math.Min)
	effHor := lift2(r.IlluminatedHor, field, axisEfficiency)
	effVert := lift2(r.IlluminatedVert, field, axisEfficiency)
	r.TotalEfficiency = lift3(effHor, effVert, r.BSCFreeArea, func(h, v, fa float64) float64 {
		return h * v * fa
	})
	return nil
}

// axisEfficiency is the illuminated fraction along one axis: full efficiency
// once the illumination field covers the usable field of view.
func axisEfficiency(illuminated, field float64) float64 {
	if illuminated < field {
		return illuminated / field
	}
	return 1
}

func evalChecks(r *Results) {
	inverseBW := lift1(r.sanBandwidth, func(bw float64) float64 { return 1 / bw })

	// The zone plate needs enough zones to reach its diffraction limit, but
	// more zones than 1/bandwidth blur the outer zones chromatically.
	r.FZPZoneCountOK = compare(r.FZPZoneCount, Scalar(100), func(n, lim float64) bool { return n > lim }).
		And(compare(r.FZPZoneCount, inverseBW, func(n, lim float64) bool { return n < lim }))

	r.DepthOfFocusOK = compare(r.FZPDepthOfFocus, r.BSCEffectiveFOV, func(dof, fov float64) bool {
		return dof >= fov
	})
	r.BSCZoneCountOK = compare(r.BSCZoneCount, inverseBW, func(n, lim float64) bool { return n < lim })
}
