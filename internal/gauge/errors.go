package gauge

import "fmt"

// DetectionKind classifies the ways a single frame can fail to yield a
// reading. Detection failures are expected during normal operation (glare,
// occlusion, motion blur) and are handled by skipping the frame.
type DetectionKind int

const (
	// KindDialNotFound means circle detection produced no dial candidates.
	KindDialNotFound DetectionKind = iota

	// KindNoLines means segment detection found nothing in the thresholded
	// dial region.
	KindNoLines

	// KindTooManyCandidates means so many needle candidates survived that
	// the frame is considered noise rather than a gauge.
	KindTooManyCandidates

	// KindNoNeedle means line segments were found but none passed the
	// geometric needle filter.
	KindNoNeedle
)

// String returns a short identifier for the failure kind, suitable for log
// attributes.
func (k DetectionKind) String() string {
	switch k {
	case KindDialNotFound:
		return "dial-not-found"
	case KindNoLines:
		return "no-lines-detected"
	case KindTooManyCandidates:
		return "too-many-candidates"
	case KindNoNeedle:
		return "no-needle-after-filtering"
	default:
		return fmt.Sprintf("detection-kind(%d)", int(k))
	}
}

// DetectionError reports a per-frame detection failure. The reader logs it,
// counts it and moves on to the next frame.
type DetectionError struct {
	Kind DetectionKind
	Msg  string
}

func (e *DetectionError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// ConfigurationError reports an invalid configuration. It is fatal: the
// reader refuses to start rather than run with settings it cannot honor.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Msg)
}
