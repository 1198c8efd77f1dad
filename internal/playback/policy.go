package playback

import (
	"time"

	"github.com/llehouerou/gallery/internal/media"
)

// Defaults for Policy.
const (
	DefaultResumeThreshold = 7 * time.Minute
	DefaultPositionEpsilon = 100 * time.Millisecond
)

// Decision is the outcome of the resume policy.
type Decision int

const (
	Resume Decision = iota
	Restart
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Resume:
		return "resume"
	case Restart:
		return "restart"
	default:
		return "unknown"
	}
}

// Policy decides whether a timed item resumes from its saved position or
// restarts from zero when it becomes visible again.
//
// A completed item always restarts. Otherwise long-form content (duration
// at or above Threshold) resumes, and short content restarts once it has
// been watched past Epsilon. An unknown duration (zero or negative) counts
// as short.
type Policy struct {
	Threshold time.Duration
	Epsilon   time.Duration
}

// DefaultPolicy returns the policy with default threshold and epsilon.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultResumeThreshold, Epsilon: DefaultPositionEpsilon}
}

// Decide applies the policy. kind is accepted for per-kind policies; both
// timed kinds currently share the same rule.
func (p Policy) Decide(duration, position time.Duration, reachedEnd bool, _ media.Kind) Decision {
	if reachedEnd {
		return Restart
	}
	if duration > 0 && duration >= p.threshold() {
		return Resume
	}
	if position > p.epsilon() {
		return Restart
	}
	return Resume
}

func (p Policy) threshold() time.Duration {
	if p.Threshold <= 0 {
		return DefaultResumeThreshold
	}
	return p.Threshold
}

func (p Policy) epsilon() time.Duration {
	if p.Epsilon <= 0 {
		return DefaultPositionEpsilon
	}
	return p.Epsilon
}

// Decide applies the default policy with the given threshold.
func Decide(duration, position time.Duration, reachedEnd bool, kind media.Kind, threshold time.Duration) Decision {
	return Policy{Threshold: threshold}.Decide(duration, position, reachedEnd, kind)
}
