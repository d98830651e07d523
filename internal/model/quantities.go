package model

import "github.com/malte-storm/txm-param-calc/internal/optics"

// QuantityInfo describes how one quantity is presented: its human-readable
// title, the plot axis label, and the fixed multiplicative factor converting
// the internal SI representation to display units. Units are handled purely
// through this factor; there is no unit arithmetic anywhere in the engine.
type QuantityInfo struct {
	ID        string
	Title     string  // display title including the unit
	AxisLabel string  // plot axis label; empty for quantities never plotted
	Unit      string  // display unit symbol, empty for dimensionless
	Scale     float64 // internal (SI) -> display multiplier
}

var quantities = map[string]QuantityInfo{
	optics.QEnergy:       {Title: "Energy [keV]", AxisLabel: "Energy [keV]", Unit: "keV", Scale: 1},
	optics.QBandwidth:    {Title: "Bandwidth", AxisLabel: "Bandwidth", Scale: 1},
	optics.QFZPZoneWidth: {Title: "FZP outer zone width [nm]", AxisLabel: "FZP outer zone width [nm]", Unit: "nm", Scale: 1e9},
	optics.QFZPDiameter:  {Title: "FZP diameter [um]", AxisLabel: "FZP diameter [um]", Unit: "um", Scale: 1e6},
	optics.QDetMag:       {Title: "Detector magnification", AxisLabel: "Detector magnification", Scale: 1},
	optics.QDetPixSize:   {Title: "Detector generic pixel size [um]", AxisLabel: "Detector generic pixel size [um]", Unit: "um", Scale: 1e6},
	optics.QDetNHor:      {Title: "Detector number of pixels (hor.)", AxisLabel: "Detector number of pixels (hor.)", Scale: 1},
	optics.QDetNVert:     {Title: "Detector number of pixels (vert.)", AxisLabel: "Detector number of pixels (vert.)", Scale: 1},
	optics.QBSCDiameter:  {Title: "BSC diameter [mm]", AxisLabel: "BSC diameter [mm]", Unit: "mm", Scale: 1e3},
	optics.QBSCZoneWidth: {Title: "BSC outer zone width [nm]", AxisLabel: "BSC outer zone width [nm]", Unit: "nm", Scale: 1e9},
	optics.QBSCField:     {Title: "BSC field size [um]", AxisLabel: "BSC field size [um]", Unit: "um", Scale: 1e6},

	optics.QWavelength:     {Title: "X-ray wavelength", AxisLabel: "X-ray wavelength [A]", Unit: "A", Scale: 1e10},
	optics.QFZPResolution:  {Title: "FZP resolution", AxisLabel: "FZP resolution [nm]", Unit: "nm", Scale: 1e9},
	optics.QFZPObjectNA:    {Title: "FZP object numerical aperture (NA)", AxisLabel: "FZP object numerical aperture (NA)", Scale: 1},
	optics.QFZPDepthFocus:  {Title: "FZP depth of focus", AxisLabel: "FZP depth of focus [um]", Unit: "um", Scale: 1e6},
	optics.QFZPZoneCount:   {Title: "FZP number of zones", AxisLabel: "FZP number of zones", Scale: 1},
	optics.QFZPFocalLength: {Title: "FZP focal length", AxisLabel: "FZP focal length [mm]", Unit: "mm", Scale: 1e3},
	optics.QMTotal:         {Title: "Total magnification", AxisLabel: "Total magnification", Scale: 1},
	optics.QMXray:          {Title: "X-ray magnification", AxisLabel: "X-ray magnification", Scale: 1},
	optics.QDistSampleFZP:  {Title: "Distance sample-FZP", AxisLabel: "Distance sample-FZP [mm]", Unit: "mm", Scale: 1e3},
	optics.QDistFZPDet:     {Title: "Distance FZP-detector", AxisLabel: "Distance FZP-detector [m]", Unit: "m", Scale: 1},
	optics.QDistSampleDet:  {Title: "Distance sample-detector [m]", AxisLabel: "Distance sample-detector [m]", Unit: "m", Scale: 1},
	optics.QEffPixelSize:   {Title: "Effective pixel size [nm]", AxisLabel: "Detector effective pixel size [nm]", Unit: "nm", Scale: 1e9},
	optics.QDetFOVHor:      {Title: "Geometric FOV (horizontal)", AxisLabel: "Geometric FOV (horizontal) [um]", Unit: "um", Scale: 1e6},
	optics.QDetFOVVert:     {Title: "Geometric FOV (vertical)", AxisLabel: "Geometric FOV (vertical) [um]", Unit: "um", Scale: 1e6},
	optics.QFZPImageNA:     {Title: "FZP image numerical aperture (NA)", AxisLabel: "FZP image numerical aperture (NA)", Scale: 1},
	optics.QFZPAngularFOV:  {Title: "FZP angular FOV", AxisLabel: "FZP angular FOV [mrad]", Unit: "mrad", Scale: 1e3},
	optics.QFZPFieldOfView: {Title: "FZP theoretical FOV", AxisLabel: "FZP theoretical FOV [um]", Unit: "um", Scale: 1e6},
	optics.QBSCFocalLength: {Title: "BSC focal length", AxisLabel: "BSC focal length [m]", Unit: "m", Scale: 1},
	optics.QBSCZoneCount:   {Title: "BSC number of zones", AxisLabel: "BSC number of zones", Scale: 1},
	optics.QDistBSCSample:  {Title: "Distance BSC-sample", AxisLabel: "Distance BSC-sample [m]", Unit: "m", Scale: 1},
	optics.QDistSourceBSC:  {Title: "Distance source-BSC", AxisLabel: "Distance source-BSC [m]", Unit: "m", Scale: 1},
	optics.QBSCCentralStop: {Title: "BSC central stop diameter [mm]", AxisLabel: "Central stop size [mm]", Unit: "mm", Scale: 1e3},
	optics.QBSCEffFOV:      {Title: "BSC effective FOV", AxisLabel: "BSC effective FOV [um]", Unit: "um", Scale: 1e6},
	optics.QBSCFreeArea:    {Title: "BSC free area", AxisLabel: "BSC free area [%]", Unit: "%", Scale: 100},
	optics.QTotalEff:       {Title: "Total coupling efficiency", AxisLabel: "Total coupling efficiency [%]", Unit: "%", Scale: 100},

	optics.QCheckFZPZones: {Title: "Number of FZP zones", Scale: 1},
	optics.QCheckDOF:      {Title: "Depth of field", Scale: 1},
	optics.QCheckBSCZones: {Title: "Number of BSC zones", Scale: 1},
}

// Info returns the display metadata for a quantity ID.
func Info(id string) (QuantityInfo, bool) {
	q, ok := quantities[id]
	if ok {
		q.ID = id
	}
	return q, ok
}

// ScaleOf returns the internal-to-display factor of a quantity, or 1 for an
// unknown ID.
func ScaleOf(id string) float64 {
	if q, ok := quantities[id]; ok {
		return q.Scale
	}
	return 1
}

// TitleOf returns the display title of a quantity, or the raw ID when no
// metadata is registered.
func TitleOf(id string) string {
	if q, ok := quantities[id]; ok {
		return q.Title
	}
	return id
}

// AxisLabelOf returns the plot axis label of a quantity, falling back to the
// title and then the raw ID.
func AxisLabelOf(id string) string {
	if q, ok := quantities[id]; ok {
		if q.AxisLabel != "" {
			return q.AxisLabel
		}
		return q.Title
	}
	return id
}
