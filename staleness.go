package staticcompress

import "time"

// Freshness classifies an artifact against its source
type Freshness int

const (
	// Absent: no artifact exists at the path
	Absent Freshness = iota
	// Stale: the artifact predates the source, or its time is unreadable
	Stale
	// Fresh: the artifact is at least as new as the source
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Absent:
		return "absent"
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// Classify decides whether an artifact must be (re)generated. Times are
// compared in whole seconds, so sub-second differences between storage
// backends never make an artifact stale, and an artifact stamped in the
// same second as its source counts as fresh. A non-nil readErr means the
// artifact's time could not be read; it is treated as stale, not fatal.
func Classify(source time.Time, exists bool, artifact time.Time, readErr error) Freshness {
	if !exists {
		return Absent
	}
	if readErr != nil {
		return Stale
	}
	if artifact.Unix() >= source.Unix() {
		return Fresh
	}
	return Stale
}
