package gauge

// Scale maps needle angles in degrees to gauge values by linear
// interpolation between two calibration anchors. An uncalibrated scale is
// the identity: it reports the angle itself, labeled in degrees.
type Scale struct {
	minAngle float64
	minValue float64
	slope    float64
	unit     string

	calibrated bool
}

// NewScale builds a scale from a validated configuration.
func NewScale(cfg *Config) *Scale {
	if !cfg.Calibrated() {
		return &Scale{unit: "degree"}
	}
	return &Scale{
		minAngle:   cfg.MinAngle,
		minValue:   cfg.MinValue,
		slope:      (cfg.MaxValue - cfg.MinValue) / (cfg.MaxAngle - cfg.MinAngle),
		unit:       cfg.Unit,
		calibrated: true,
	}
}

// Convert maps an angle in degrees to a gauge value. Angles outside the
// calibration range extrapolate on the same line; the gauge hardware, not
// the scale, bounds what the needle can reach.
func (s *Scale) Convert(angleDeg float64) float64 {
	if !s.calibrated {
		return angleDeg
	}
	return s.minValue + (angleDeg-s.minAngle)*s.slope
}

// Unit returns the label for converted values.
func (s *Scale) Unit() string {
	return s.unit
}

// Calibrated reports whether Convert applies a real calibration.
func (s *Scale) Calibrated() bool {
	return s.calibrated
}
