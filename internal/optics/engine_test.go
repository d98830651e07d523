package optics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genericParams mirrors the reference configuration of the PETRA III TXM
// beamline setup these formulas were written for.
func genericParams() Params {
	return Params{
		Energy:           Scalar(12),
		Bandwidth:        Scalar(1e-3),
		FZPZoneWidth:     Scalar(50e-9),
		FZPDiameter:      Scalar(150e-6),
		DetMagnification: Scalar(1),
		DetPixelSize:     Scalar(6.5e-6),
		DetPixelsHor:     Scalar(2048),
		DetPixelsVert:    Scalar(2048),
		BSCDiameter:      Scalar(2.9e-3),
		BSCZoneWidth:     Scalar(50e-9),
		BSCFieldSize:     Scalar(60e-6),
	}
}

func TestEvaluate_Stage1Reference(t *testing.T) {
	r, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	assert.InDelta(t, 1.0332e-10, r.Wavelength.Float(), 1e-14)
	assert.InDelta(t, 750, r.FZPZoneCount.Float(), 1e-9)
	assert.True(t, r.FZPZoneCountOK.Bool(), "750 zones lies between 100 and 1/bandwidth=1000")

	wavelength := 12.398e-10 / 12
	assert.InDelta(t, 150e-6*50e-9/wavelength, r.FZPFocalLength.Float(), 1e-9)
	assert.InDelta(t, wavelength/(2*50e-9), r.FZPObjectNA.Float(), 1e-12)
	assert.InDelta(t, 2*50e-9*50e-9/wavelength, r.FZPDepthOfFocus.Float(), 1e-12)

	// max of the diffraction and chromatic resolution limits
	chromatic := 0.61 * math.Sqrt(150e-6*50e-9*1e-3)
	assert.InDelta(t, math.Max(1.22*50e-9, chromatic), r.FZPResolution.Float(), 1e-15)
}

func TestEvaluate_WavelengthEnergyInverse(t *testing.T) {
	for _, energy := range []float64{5, 8, 12, 17.4, 30} {
		p := genericParams()
		p.Energy = Scalar(energy)
		r, err := Evaluate(p,
			EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
			ExplicitStop{Size: Scalar(1.5e-3)})
		require.NoError(t, err)
		assert.InDelta(t, energy, 12.398e-10/r.Wavelength.Float(), energy*1e-12)
	}
}

func TestEvaluate_TargetDistanceReference(t *testing.T) {
	// 8.3 m is far above four focal lengths (~0.29 m), so the solve must
	// succeed and the effective pixel must shrink below the detector pixel.
	r, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)
	require.True(t, r.Feasible.All())

	assert.Greater(t, r.EffPixelSize.Float(), 0.0)
	assert.Less(t, r.EffPixelSize.Float(), 6.5e-6)
	assert.Greater(t, r.DistSampleFZP.Float(), 0.0)
	assert.InDelta(t, 8.3, r.DistSampleFZP.Float()+r.DistFZPDetector.Float(), 1e-12)

	// Magnification chain consistency
	assert.InDelta(t, r.MXray.Float(), r.DistFZPDetector.Float()/r.DistSampleFZP.Float(), 1e-9)
	assert.InDelta(t, r.EffPixelSize.Float(), 6.5e-6/r.MTotal.Float(), 1e-15)

	// Fields of view scale with the pixel counts
	assert.InDelta(t, r.EffPixelSize.Float()*2048, r.DetFOVHor.Float(), 1e-15)
	assert.InDelta(t, r.DetFOVHor.Float(), r.DetFOVVert.Float(), 1e-18)
}

func TestEvaluate_ModeRoundTrip(t *testing.T) {
	// Forward through effective-pixel mode, then the resulting total distance
	// back through target-distance mode must reproduce the pixel size.
	fwd, err := Evaluate(genericParams(),
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	back, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: fwd.DistSampleDetector},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	assert.InDelta(t, 50e-9, back.EffPixelSize.Float(), 50e-9*1e-9)
	assert.InDelta(t, fwd.MXray.Float(), back.MXray.Float(), fwd.MXray.Float()*1e-9)
	assert.InDelta(t, fwd.DistSampleFZP.Float(), back.DistSampleFZP.Float(), 1e-9)
}

func TestEvaluate_SweepMatchesPointwiseScalar(t *testing.T) {
	energies := []float64{10, 12, 14}

	p := genericParams()
	p.Energy = Sweep(energies)
	sweep, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	for _, id := range DerivedIDs {
		v, ok := sweep.Quantity(id)
		require.True(t, ok, id)
		assert.Equal(t, 3, v.Len(), id)
	}

	for i, energy := range energies {
		pp := genericParams()
		pp.Energy = Scalar(energy)
		point, err := Evaluate(pp,
			TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
			ExplicitStop{Size: Scalar(1.5e-3)})
		require.NoError(t, err)

		for _, id := range DerivedIDs {
			sv, _ := sweep.Quantity(id)
			pv, _ := point.Quantity(id)
			assert.InDelta(t, pv.Float(), sv.At(i), math.Abs(pv.Float())*1e-12+1e-18,
				"%s at sample %d (energy %g)", id, i, energy)
		}
		for _, id := range CheckIDs {
			sf, _ := sweep.Check(id)
			pf, _ := point.Check(id)
			assert.Equal(t, pf.Bool(), sf.At(i), "%s at sample %d", id, i)
		}
	}
}

// An energy sweep must shape every output, including quantities whose
// formulas never read the energy: zone counts, the resolution limit, the
// echoed target distance, and the explicit central stop size.
func TestEvaluate_SweepBroadcastsUntouchedQuantities(t *testing.T) {
	p := genericParams()
	p.Energy = Sweep([]float64{10, 12, 14})
	r, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	for _, id := range []string{
		QFZPResolution, QFZPZoneCount, QBSCZoneCount, QDistSampleDet, QBSCCentralStop,
	} {
		v, ok := r.Quantity(id)
		require.True(t, ok, id)
		assert.True(t, v.IsSweep(), id)
		assert.Equal(t, 3, v.Len(), id)
		assert.Equal(t, v.At(0), v.At(2), id)
	}
	for _, id := range CheckIDs {
		f, _ := r.Check(id)
		assert.Equal(t, 3, f.Len(), id)
	}
	assert.Equal(t, 3, r.Feasible.Len())
}

func TestEvaluate_EfficiencyAndFreeAreaBounds(t *testing.T) {
	stops := []float64{0.1e-3, 1.5e-3, 2.9e-3, 5e-3}
	for _, cs := range stops {
		r, err := Evaluate(genericParams(),
			TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
			ExplicitStop{Size: Scalar(cs)})
		require.NoError(t, err)

		free := r.BSCFreeArea.Float()
		assert.GreaterOrEqual(t, free, 0.0, "stop %g", cs)
		assert.LessOrEqual(t, free, 1.0, "stop %g", cs)

		eff := r.TotalEfficiency.Float()
		assert.GreaterOrEqual(t, eff, 0.0, "stop %g", cs)
		assert.LessOrEqual(t, eff, 1.0, "stop %g", cs)
	}

	// A stop wider than the condenser blocks everything.
	r, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(10e-3)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.BSCFreeArea.Float())
	assert.Equal(t, 0.0, r.TotalEfficiency.Float())
}

func TestEvaluate_FullDetectorStop(t *testing.T) {
	r, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		FullDetectorStop{})
	require.NoError(t, err)

	// Square detector: horizontal and vertical extents coincide.
	want := 6.5e-6 * 2048 * r.DistBSCSample.Float() / 8.3 / 1
	assert.InDelta(t, want, r.BSCCentralStop.Float(), math.Abs(want)*1e-12)
	assert.Greater(t, r.BSCCentralStop.Float(), 0.0)
}

func TestEvaluate_FullDetectorStop_TakesLargerExtent(t *testing.T) {
	p := genericParams()
	p.DetPixelsHor = Scalar(2048)
	p.DetPixelsVert = Scalar(4096)
	r, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		FullDetectorStop{})
	require.NoError(t, err)

	vert := 6.5e-6 * 4096 * r.DistBSCSample.Float() / 8.3
	assert.InDelta(t, vert, r.BSCCentralStop.Float(), vert*1e-12)
}

func TestEvaluate_CondenserGeometry(t *testing.T) {
	r, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	wavelength := 12.398e-10 / 12
	focal := 2.9e-3 * 50e-9 / wavelength
	assert.InDelta(t, focal, r.BSCFocalLength.Float(), 1e-9)

	s1 := 65.0/2 - math.Sqrt(65.0*65.0/4-65.0*focal)
	assert.InDelta(t, s1, r.DistBSCSample.Float(), 1e-9)
	assert.InDelta(t, 65.0-s1, r.DistSourceBSC.Float(), 1e-9)

	assert.InDelta(t, 2.9e-3/(4*50e-9), r.BSCZoneCount.Float(), 1e-6)
	// 14500 condenser zones exceed 1/bandwidth = 1000
	assert.False(t, r.BSCZoneCountOK.Bool())
}

func TestEvaluate_LegacyBSCFocalSwitch(t *testing.T) {
	p := genericParams()
	p.BSCZoneWidth = Scalar(70e-9)

	modern, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	p.LegacyBSCFocal = true
	legacy, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	wavelength := 12.398e-10 / 12
	assert.InDelta(t, 2.9e-3*70e-9/wavelength, modern.BSCFocalLength.Float(), 1e-9)
	// Legacy path keeps using the objective zone width.
	assert.InDelta(t, 2.9e-3*50e-9/wavelength, legacy.BSCFocalLength.Float(), 1e-9)
	// The zone count always uses the condenser zone width.
	assert.InDelta(t, modern.BSCZoneCount.Float(), legacy.BSCZoneCount.Float(), 1e-9)
}

func TestEvaluate_ZeroEnergyIsDomainError(t *testing.T) {
	p := genericParams()
	p.Energy = Scalar(0)
	_, err := Evaluate(p,
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEvaluate_ZeroZoneWidthIsDomainError(t *testing.T) {
	p := genericParams()
	p.FZPZoneWidth = Scalar(0)
	_, err := Evaluate(p,
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEvaluate_SweepWithBadSampleKeepsGoing(t *testing.T) {
	p := genericParams()
	p.Energy = Sweep([]float64{0, 12, 14})
	r, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Scalar(8.3)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	assert.False(t, r.Feasible.At(0))
	assert.True(t, r.Feasible.At(1))
	assert.True(t, r.Feasible.At(2))

	assert.True(t, math.IsNaN(r.Wavelength.At(0)))
	assert.True(t, math.IsNaN(r.EffPixelSize.At(0)), "invalid sample must propagate downstream")
	assert.False(t, math.IsNaN(r.EffPixelSize.At(1)))
	assert.False(t, r.FZPZoneCountOK.At(0), "invalid sample never passes a check")
}

func TestEvaluate_InfeasibleSweepSample(t *testing.T) {
	// Focal length ~0.0726 m; 0.1 m total distance is below 4f.
	p := genericParams()
	r, err := Evaluate(p,
		TargetDistanceMode{DistSampleDetector: Sweep([]float64{0.1, 8.3})},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	assert.False(t, r.Feasible.At(0))
	assert.True(t, r.Feasible.At(1))
	assert.True(t, math.IsNaN(r.MXray.At(0)))
	assert.True(t, math.IsNaN(r.TotalEfficiency.At(0)))
	assert.False(t, math.IsNaN(r.TotalEfficiency.At(1)))
}

func TestEvaluate_AllInfeasibleIsError(t *testing.T) {
	_, err := Evaluate(genericParams(),
		TargetDistanceMode{DistSampleDetector: Scalar(0.1)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestEvaluate_MismatchedSweepLengths(t *testing.T) {
	p := genericParams()
	p.Energy = Sweep([]float64{10, 12})
	p.Bandwidth = Sweep([]float64{1e-3, 2e-3, 3e-3})
	_, err := Evaluate(p,
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEvaluate_MissingModes(t *testing.T) {
	_, err := Evaluate(genericParams(), nil, ExplicitStop{Size: Scalar(1.5e-3)})
	assert.ErrorIs(t, err, ErrDomain)

	_, err = Evaluate(genericParams(), EffectivePixelMode{EffPixelSize: Scalar(50e-9)}, nil)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestEvaluate_QuantityLookup(t *testing.T) {
	r, err := Evaluate(genericParams(),
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)

	for _, id := range append(append([]string{}, PrimaryIDs...), DerivedIDs...) {
		_, ok := r.Quantity(id)
		assert.True(t, ok, "quantity %q not reachable by name", id)
	}
	for _, id := range CheckIDs {
		_, ok := r.Check(id)
		assert.True(t, ok, "check %q not reachable by name", id)
	}
	_, ok := r.Quantity("no_such_quantity")
	assert.False(t, ok)
}

func TestEvaluate_PureAcrossCalls(t *testing.T) {
	p := genericParams()
	first, err := Evaluate(p,
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)
	firstEff := first.TotalEfficiency.Float()

	// A second evaluation with different inputs must not disturb the first
	// result, and re-running the original inputs reproduces it exactly.
	p2 := genericParams()
	p2.Energy = Scalar(20)
	_, err = Evaluate(p2,
		EffectivePixelMode{EffPixelSize: Scalar(30e-9)},
		FullDetectorStop{})
	require.NoError(t, err)

	again, err := Evaluate(p,
		EffectivePixelMode{EffPixelSize: Scalar(50e-9)},
		ExplicitStop{Size: Scalar(1.5e-3)})
	require.NoError(t, err)
	assert.Equal(t, firstEff, again.TotalEfficiency.Float())
	assert.Equal(t, firstEff, first.TotalEfficiency.Float())
}
