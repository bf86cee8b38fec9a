package gauge

import (
	"math"
	"os"
	"time"

	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// Config carries every tunable of the reading pipeline. Zero values are not
// usable; start from DefaultConfig and override.
//
// The four calibration fields are all-or-none. When all four are set the
// reader converts needle angles to gauge values on the configured unit; when
// all four are NaN it reports raw needle angles in degrees. Any mixture is a
// configuration error.
type Config struct {
	// Sensor names this gauge in published samples and alert texts.
	Sensor string

	// Calibration anchors: two angles (degrees, 0 pointing straight down,
	// increasing clockwise) and the gauge values they correspond to. NaN
	// means uncalibrated.
	MinAngle float64
	MaxAngle float64
	MinValue float64
	MaxValue float64

	// Unit labels calibrated readings, e.g. "bar" or "psi".
	Unit string

	// MinWarn and MaxWarn bound the acceptable median reading. NaN disables
	// the corresponding alert.
	MinWarn float64
	MaxWarn float64

	// WarnInterval rate-limits value alerts. WarnNoDetections is how long
	// the reader tolerates going without a successful reading before it
	// raises a silence alert.
	WarnInterval     time.Duration
	WarnNoDetections time.Duration

	// AlertTemplate is expanded with $value and $time when a value alert
	// fires.
	AlertTemplate string

	// ThresholdMode and ThresholdLevel control binarization of the dial
	// region before segment detection. BlurSize is the odd kernel width of
	// the pre-detection median blur.
	ThresholdMode  imaging.ThresholdMode
	ThresholdLevel uint8
	BlurSize       int

	// UseLineFilter enables an edge-based cleanup pass between thresholding
	// and segment detection.
	UseLineFilter bool

	// MinDialFrac and MaxDialFrac bound the dial diameter as fractions of
	// the smaller frame dimension.
	MinDialFrac float64
	MaxDialFrac float64

	// Needle endpoint bands, as fractions of the dial radius: one needle
	// endpoint must land in [RInnerMin, RInnerMax], the other in
	// [ROuterMin, ROuterMax].
	RInnerMin float64
	RInnerMax float64
	ROuterMin float64
	ROuterMax float64

	// MinLengthFrac is the minimum needle length as a fraction of the dial
	// radius.
	MinLengthFrac float64

	// DialWindow and ValueWindow size the median filters over dial geometry
	// and readings.
	DialWindow  int
	ValueWindow int

	// MinInterval throttles the processing loop.
	MinInterval time.Duration
}

// DefaultConfig returns the settings tuned against bourdon-tube pressure
// gauges under workshop lighting.
func DefaultConfig() Config {
	return Config{
		Sensor: "sensor1",

		MinAngle: math.NaN(),
		MaxAngle: math.NaN(),
		MinValue: math.NaN(),
		MaxValue: math.NaN(),
		Unit:     "degree",

		MinWarn:          math.NaN(),
		MaxWarn:          math.NaN(),
		WarnInterval:     600 * time.Second,
		WarnNoDetections: 1800 * time.Second,
		AlertTemplate:    "Pressure is $value at $time!",

		ThresholdMode:  imaging.ThresholdBinary,
		ThresholdLevel: 175,
		BlurSize:       5,

		MinDialFrac: 0.4,
		MaxDialFrac: 0.9,

		RInnerMin: 0.15,
		RInnerMax: 0.6,
		ROuterMin: 0.65,
		ROuterMax: 1.0,

		MinLengthFrac: 0.2,

		DialWindow:  20,
		ValueWindow: 20,
	}
}

// Calibrated reports whether all four calibration anchors are set.
func (c *Config) Calibrated() bool {
	return !math.IsNaN(c.MinAngle) && !math.IsNaN(c.MaxAngle) &&
		!math.IsNaN(c.MinValue) && !math.IsNaN(c.MaxValue)
}

// Validate checks the configuration for contradictions. It returns a
// ConfigurationError describing the first problem found.
func (c *Config) Validate() error {
	calibrationSet := 0
	for _, v := range []float64{c.MinAngle, c.MaxAngle, c.MinValue, c.MaxValue} {
		if !math.IsNaN(v) {
			calibrationSet++
		}
	}
	if calibrationSet != 0 && calibrationSet != 4 {
		return &ConfigurationError{
			Field: "calibration",
			Msg:   "min-angle, max-angle, min-value and max-value must be set together or not at all",
		}
	}
	if c.Calibrated() && c.MinAngle == c.MaxAngle {
		return &ConfigurationError{Field: "calibration", Msg: "min-angle and max-angle must differ"}
	}

	if c.BlurSize < 1 || c.BlurSize%2 == 0 {
		return &ConfigurationError{Field: "blur-size", Msg: "must be a positive odd number"}
	}

	if c.MinDialFrac <= 0 || c.MaxDialFrac > 1 || c.MinDialFrac >= c.MaxDialFrac {
		return &ConfigurationError{Field: "dial-diameter", Msg: "need 0 < min < max <= 1"}
	}

	if !(c.RInnerMin < c.RInnerMax && c.RInnerMax <= c.ROuterMin && c.ROuterMin < c.ROuterMax) {
		return &ConfigurationError{
			Field: "needle-bands",
			Msg:   "need inner-min < inner-max <= outer-min < outer-max",
		}
	}
	if c.RInnerMin < 0 || c.ROuterMax > 1 {
		return &ConfigurationError{Field: "needle-bands", Msg: "bands must stay within [0, 1] of the dial radius"}
	}

	if c.MinLengthFrac <= 0 || c.MinLengthFrac > 1 {
		return &ConfigurationError{Field: "min-length", Msg: "must be in (0, 1]"}
	}

	if c.DialWindow < 1 {
		return &ConfigurationError{Field: "dial-window", Msg: "must be at least 1"}
	}
	if c.ValueWindow < 1 {
		return &ConfigurationError{Field: "value-window", Msg: "must be at least 1"}
	}

	if c.WarnInterval <= 0 {
		return &ConfigurationError{Field: "warn-interval", Msg: "must be positive"}
	}
	if c.WarnNoDetections <= 0 {
		return &ConfigurationError{Field: "warn-no-detections", Msg: "must be positive"}
	}

	if c.Sensor == "" {
		return &ConfigurationError{Field: "sensor", Msg: "must not be empty"}
	}

	// Expand the template once up front so a typo surfaces at startup, not
	// on the first alert.
	unknown := ""
	os.Expand(c.AlertTemplate, func(name string) string {
		if name != "value" && name != "time" {
			unknown = name
		}
		return ""
	})
	if unknown != "" {
		return &ConfigurationError{
			Field: "alert-template",
			Msg:   "unknown variable $" + unknown + ", only $value and $time are substituted",
		}
	}

	return nil
}
