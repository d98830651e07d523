package optics

// Quantity identifiers, used by the presentation layer to select plot
// variables and to iterate exports. Primary inputs echo the Params fields;
// the mode driving inputs (effective pixel size, sample-detector distance,
// central stop size) always appear on the derived side because both solve
// modes populate them.
const (
	QEnergy       = "energy"
	QBandwidth    = "bandwidth"
	QFZPZoneWidth = "fzp_dr"
	QFZPDiameter  = "fzp_d"
	QDetMag       = "m_det"
	QDetPixSize   = "det_pix_size"
	QDetNHor      = "det_n_hor"
	QDetNVert     = "det_n_vert"
	QBSCDiameter  = "bsc_d"
	QBSCZoneWidth = "bsc_dr"
	QBSCField     = "bsc_field"

	QWavelength     = "wavelength"
	QFZPResolution  = "fzp_resolution"
	QFZPObjectNA    = "fzp_object_na"
	QFZPDepthFocus  = "fzp_dof"
	QFZPZoneCount   = "fzp_n_zones"
	QFZPFocalLength = "fzp_f"
	QMTotal         = "m_total"
	QMXray          = "m_xray"
	QDistSampleFZP  = "dist_sample_fzp"
	QDistFZPDet     = "dist_fzp_det"
	QDistSampleDet  = "dist_sample_det"
	QEffPixelSize   = "eff_pix"
	QDetFOVHor      = "det_fov_hor"
	QDetFOVVert     = "det_fov_vert"
	QFZPImageNA     = "fzp_image_na"
	QFZPAngularFOV  = "fzp_angular_fov"
	QFZPFieldOfView = "fzp_fov"
	QBSCFocalLength = "bsc_f"
	QBSCZoneCount   = "bsc_n_zones"
	QDistBSCSample  = "dist_bsc_sample"
	QDistSourceBSC  = "dist_source_bsc"
	QBSCCentralStop = "bsc_cs"
	QBSCEffFOV      = "bsc_eff_fov"
	QBSCFreeArea    = "bsc_free_area"
	QTotalEff       = "total_eff"

	QCheckFZPZones = "check_fzp_n_zones"
	QCheckDOF      = "check_dof"
	QCheckBSCZones = "check_bsc_n_zones"
)

// PrimaryIDs lists the primary inputs in display order.
var PrimaryIDs = []string{
	QEnergy, QBandwidth, QFZPZoneWidth, QFZPDiameter,
	QDetMag, QDetPixSize, QDetNHor, QDetNVert,
	QBSCDiameter, QBSCZoneWidth, QBSCField,
}

// DerivedIDs lists every derived quantity in display/export order.
var DerivedIDs = []string{
	QWavelength, QFZPResolution, QFZPObjectNA, QFZPDepthFocus,
	QFZPZoneCount, QFZPFocalLength,
	QMTotal, QMXray, QDistSampleFZP, QDistFZPDet, QDistSampleDet,
	QEffPixelSize, QDetFOVHor, QDetFOVVert,
	QFZPImageNA, QFZPAngularFOV, QFZPFieldOfView,
	QBSCFocalLength, QBSCZoneCount, QDistBSCSample, QDistSourceBSC,
	QBSCCentralStop, QBSCEffFOV, QBSCFreeArea, QTotalEff,
}

// CheckIDs lists the validity flags in display order.
var CheckIDs = []string{QCheckFZPZones, QCheckDOF, QCheckBSCZones}

// Quantity returns the value of a primary or derived quantity by identifier.
func (r *Results) Quantity(id string) (Value, bool) {
	switch id {
	case QEnergy:
		return r.Params.Energy, true
	case QBandwidth:
		return r.Params.Bandwidth, true
	case QFZPZoneWidth:
		return r.Params.FZPZoneWidth, true
	case QFZPDiameter:
		return r.Params.FZPDiameter, true
	case QDetMag:
		return r.Params.DetMagnification, true
	case QDetPixSize:
		return r.Params.DetPixelSize, true
	case QDetNHor:
		return r.Params.DetPixelsHor, true
	case QDetNVert:
		return r.Params.DetPixelsVert, true
	case QBSCDiameter:
		return r.Params.BSCDiameter, true
	case QBSCZoneWidth:
		return r.Params.BSCZoneWidth, true
	case QBSCField:
		return r.Params.BSCFieldSize, true
	case QWavelength:
		return r.Wavelength, true
	case QFZPResolution:
		return r.FZPResolution, true
	case QFZPObjectNA:
		return r.FZPObjectNA, true
	case QFZPDepthFocus:
		return r.FZPDepthOfFocus, true
	case QFZPZoneCount:
		return r.FZPZoneCount, true
	case QFZPFocalLength:
		return r.FZPFocalLength, true
	case QMTotal:
		return r.MTotal, true
	case QMXray:
		return r.MXray, true
	case QDistSampleFZP:
		return r.DistSampleFZP, true
	case QDistFZPDet:
		return r.DistFZPDetector, true
	case QDistSampleDet:
		return r.DistSampleDetector, true
	case QEffPixelSize:
		return r.EffPixelSize, true
	case QDetFOVHor:
		return r.DetFOVHor, true
	case QDetFOVVert:
		return r.DetFOVVert, true
	case QFZPImageNA:
		return r.FZPImageNA, true
	case QFZPAngularFOV:
		return r.FZPAngularFOV, true
	case QFZPFieldOfView:
		return r.FZPFieldOfView, true
	case QBSCFocalLength:
		return r.BSCFocalLength, true
	case QBSCZoneCount:
		return r.BSCZoneCount, true
	case QDistBSCSample:
		return r.DistBSCSample, true
	case QDistSourceBSC:
		return r.DistSourceBSC, true
	case QBSCCentralStop:
		return r.BSCCentralStop, true
	case QBSCEffFOV:
		return r.BSCEffectiveFOV, true
	case QBSCFreeArea:
		return r.BSCFreeArea, true
	case QTotalEff:
		return r.TotalEfficiency, true
	}
	return Value{}, false
}

// Check returns a validity flag by identifier.
func (r *Results) Check(id string) (Flag, bool) {
	switch id {
	case QCheckFZPZones:
		return r.FZPZoneCountOK, true
	case QCheckDOF:
		return r.DepthOfFocusOK, true
	case QCheckBSCZones:
		return r.BSCZoneCountOK, true
	}
	return Flag{}, false
}
