// Package model holds the caller-facing parameter state of the calculator:
// the primary inputs, the per-stage solve mode selections, quantity metadata
// (display labels and unit scaling), and the reference default values. The
// computation itself lives in internal/optics; model owns everything the
// engine was deliberately freed of.
package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// DetectorSolveMode selects the driving input of the detector stage.
type DetectorSolveMode string

const (
	DetModeEffPixel       DetectorSolveMode = "effective_pixel"
	DetModeTargetDistance DetectorSolveMode = "target_distance"
)

// StopSolveMode selects how the condenser central stop is sized.
type StopSolveMode string

const (
	StopModeExplicit     StopSolveMode = "explicit"
	StopModeFullDetector StopSolveMode = "full_detector"
)

// Setup is the complete mutable state owned by the caller: every primary
// parameter, both driving inputs of each mode-bearing stage (the inactive
// one keeps its last value but is not authoritative), and the mode
// selections. One Setup corresponds to one engine evaluation.
type Setup struct {
	Params optics.Params `json:"params"`

	// Driving inputs of the detector stage; DetMode picks the active one.
	EffPixelSize       optics.Value `json:"eff_pix"`         // m
	DistSampleDetector optics.Value `json:"dist_sample_det"` // m

	// Explicit central stop size; ignored while StopMode is full_detector.
	CentralStopSize optics.Value `json:"bsc_cs"` // m

	DetMode  DetectorSolveMode `json:"det_mode"`
	StopMode StopSolveMode     `json:"stop_mode"`

	// ActiveSweep is the quantity ID of the one parameter currently holding
	// a sweep, or empty when everything is scalar.
	ActiveSweep string `json:"active_sweep,omitempty"`
}

// DefaultSetup returns the reference configuration the calculator starts
// from: a 12 keV beam on a 50 nm / 150 um zone plate with a 2048x2048
// detector at 6.5 um pixels and a 2.9 mm condenser.
func DefaultSetup() Setup {
	return Setup{
		Params: optics.Params{
			Energy:           optics.Scalar(12),
			Bandwidth:        optics.Scalar(1e-3),
			FZPZoneWidth:     optics.Scalar(50e-9),
			FZPDiameter:      optics.Scalar(150e-6),
			DetMagnification: optics.Scalar(1),
			DetPixelSize:     optics.Scalar(6.5e-6),
			DetPixelsHor:     optics.Scalar(2048),
			DetPixelsVert:    optics.Scalar(2048),
			BSCDiameter:      optics.Scalar(2.9e-3),
			BSCZoneWidth:     optics.Scalar(50e-9),
			BSCFieldSize:     optics.Scalar(60e-6),
		},
		EffPixelSize:       optics.Scalar(50e-9),
		DistSampleDetector: optics.Scalar(8.3),
		CentralStopSize:    optics.Scalar(1.5e-3),
		DetMode:            DetModeEffPixel,
		StopMode:           StopModeExplicit,
	}
}

// DetectorMode wraps the active driving input into the engine's mode variant.
func (s Setup) DetectorMode() optics.DetectorMode {
	if s.DetMode == DetModeTargetDistance {
		return optics.TargetDistanceMode{DistSampleDetector: s.DistSampleDetector}
	}
	return optics.EffectivePixelMode{EffPixelSize: s.EffPixelSize}
}

// StopModeVariant wraps the central stop selection into the engine's variant.
func (s Setup) StopModeVariant() optics.StopMode {
	if s.StopMode == StopModeFullDetector {
		return optics.FullDetectorStop{}
	}
	return optics.ExplicitStop{Size: s.CentralStopSize}
}

// Evaluate runs the full calculation for the current state.
func (s Setup) Evaluate() (*optics.Results, error) {
	return optics.Evaluate(s.Params, s.DetectorMode(), s.StopModeVariant())
}

// settable maps quantity IDs to accessors for the user-settable inputs.
// The driving inputs are settable even while their mode is inactive; they
// simply stop being authoritative until the mode is switched back.
func (s *Setup) settable(id string) *optics.Value {
	switch id {
	case optics.QEnergy:
		return &s.Params.Energy
	case optics.QBandwidth:
		return &s.Params.Bandwidth
	case optics.QFZPZoneWidth:
		return &s.Params.FZPZoneWidth
	case optics.QFZPDiameter:
		return &s.Params.FZPDiameter
	case optics.QDetMag:
		return &s.Params.DetMagnification
	case optics.QDetPixSize:
		return &s.Params.DetPixelSize
	case optics.QDetNHor:
		return &s.Params.DetPixelsHor
	case optics.QDetNVert:
		return &s.Params.DetPixelsVert
	case optics.QBSCDiameter:
		return &s.Params.BSCDiameter
	case optics.QBSCZoneWidth:
		return &s.Params.BSCZoneWidth
	case optics.QBSCField:
		return &s.Params.BSCFieldSize
	case optics.QEffPixelSize:
		return &s.EffPixelSize
	case optics.QDistSampleDet:
		return &s.DistSampleDetector
	case optics.QBSCCentralStop:
		return &s.CentralStopSize
	}
	return nil
}

// InputIDs lists the user-settable inputs in display order, including the
// driving inputs of both solve modes.
var InputIDs = []string{
	optics.QEnergy, optics.QBandwidth, optics.QFZPZoneWidth, optics.QFZPDiameter,
	optics.QDetMag, optics.QDetPixSize, optics.QDetNHor, optics.QDetNVert,
	optics.QEffPixelSize, optics.QDistSampleDet,
	optics.QBSCDiameter, optics.QBSCZoneWidth, optics.QBSCCentralStop, optics.QBSCField,
}

// Set stores a new value for the given input, enforcing the global invariant
// that at most one parameter sweeps at a time. Assigning a sweep claims the
// sweep slot; assigning a scalar to the active sweep variable releases it.
func (s *Setup) Set(id string, v optics.Value) error {
	target := s.settable(id)
	if target == nil {
		return fmt.Errorf("%q is not a settable parameter", id)
	}
	if v.IsSweep() {
		if s.ActiveSweep != "" && s.ActiveSweep != id {
			return fmt.Errorf("parameter %q already sweeps; only one parameter may hold a range at a time", s.ActiveSweep)
		}
		s.ActiveSweep = id
	} else if s.ActiveSweep == id {
		s.ActiveSweep = ""
	}
	*target = v
	return nil
}

// SetDisplay stores a value given in display units, converting to the
// internal SI representation through the quantity's scaling factor.
func (s *Setup) SetDisplay(id string, v optics.Value) error {
	scale := ScaleOf(id)
	return s.Set(id, v.Scale(1/scale))
}

// InputDisplay returns the current value of an input in display units.
func (s *Setup) InputDisplay(id string) (optics.Value, bool) {
	v, ok := s.Input(id)
	if !ok {
		return optics.Value{}, false
	}
	return v.Scale(ScaleOf(id)), true
}

// Input returns the current value of a user-settable input.
func (s *Setup) Input(id string) (optics.Value, bool) {
	target := s.settable(id)
	if target == nil {
		return optics.Value{}, false
	}
	return *target, true
}

// SweepValues returns the active sweep variable's samples in display units,
// for use as the x axis of plots and exports. ok is false when no parameter
// sweeps.
func (s *Setup) SweepValues() (xs []float64, ok bool) {
	if s.ActiveSweep == "" {
		return nil, false
	}
	v, found := s.Input(s.ActiveSweep)
	if !found || !v.IsSweep() {
		return nil, false
	}
	return v.Scale(ScaleOf(s.ActiveSweep)).Values(), true
}

// Preset is a named, persistable snapshot of a Setup.
type Preset struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Setup Setup  `json:"setup"`
}

func NewPreset(name string, s Setup) Preset {
	return Preset{
		ID:    uuid.New().String()[:8],
		Name:  name,
		Setup: s,
	}
}
