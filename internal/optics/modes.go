package optics

// DetectorMode selects which of the two mutually exclusive formula sets
// populates the detector-geometry stage. Each mode carries only its own
// driving input, so there is never a stale value for the inactive mode
// inside the engine; the caller keeps both inputs and wraps the active one.
type DetectorMode interface {
	detectorMode()
}

// EffectivePixelMode derives the detector geometry forward from a requested
// effective pixel size at the sample plane.
type EffectivePixelMode struct {
	EffPixelSize Value // m
}

// TargetDistanceMode derives the detector geometry backward from a fixed
// total sample-to-detector distance, solving the imaging equation for the
// sample-to-lens working distance.
type TargetDistanceMode struct {
	DistSampleDetector Value // m
}

func (EffectivePixelMode) detectorMode() {}
func (TargetDistanceMode) detectorMode() {}

// StopMode selects how the condenser central stop is sized.
type StopMode interface {
	stopMode()
}

// ExplicitStop uses a caller-supplied central stop diameter.
type ExplicitStop struct {
	Size Value // m
}

// FullDetectorStop sizes the central stop so that the stop shadow covers the
// full detector field of view, independently for the horizontal and vertical
// extents, taking the larger.
type FullDetectorStop struct{}

func (ExplicitStop) stopMode()     {}
func (FullDetectorStop) stopMode() {}
