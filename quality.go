package avrender

import (
	"fmt"
	"strings"
)

// Quality selects the speed/fidelity trade-off backends use when scaling
// frame content into the video rectangle.
type Quality int

const (
	// QualityDefault is the backend's balanced scaler.
	QualityDefault Quality = iota
	// QualityBest prefers fidelity over speed.
	QualityBest
	// QualityFastest prefers speed over fidelity, for constrained hosts.
	QualityFastest
)

// String returns a human-readable name for the quality level.
func (q Quality) String() string {
	switch q {
	case QualityDefault:
		return "default"
	case QualityBest:
		return "best"
	case QualityFastest:
		return "fastest"
	default:
		return fmt.Sprintf("unknown(%d)", int(q))
	}
}

// Valid reports whether q is one of the defined quality levels.
func (q Quality) Valid() bool {
	return q >= QualityDefault && q <= QualityFastest
}

// ParseQuality converts a string produced by Quality.String (or a
// configuration file) back into a Quality. Matching is case-insensitive.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return QualityDefault, nil
	case "best":
		return QualityBest, nil
	case "fastest":
		return QualityFastest, nil
	}
	return QualityDefault, fmt.Errorf("avrender: unknown quality %q", s)
}
