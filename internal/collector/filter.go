package collector

import (
	"time"

	"creator-scout-go/internal/discovery"
)

// FilterParams are the admission bounds. MaxDurationSeconds of zero means no
// ceiling.
type FilterParams struct {
	MinSubscribers     int64
	MaxAgeDays         int
	MinDurationSeconds int
	MaxDurationSeconds int
}

// Rejection reasons, one per independently checkable bound.
const (
	RejectSubscribers = "subscriber count below floor"
	RejectAge         = "published too long ago"
	RejectDuration    = "duration outside range"
)

// Admit decides admission as the AND of the subscriber floor, the age ceiling
// and the duration range. Pure; no side effects. A duration of zero reads as
// unknown and passes the range check.
func Admit(c discovery.Candidate, subscribers int64, now time.Time, p FilterParams) (bool, string) {
	if subscribers < p.MinSubscribers {
		return false, RejectSubscribers
	}
	if p.MaxAgeDays > 0 && !c.PublishedAt.IsZero() {
		ageDays := int(now.Sub(c.PublishedAt).Hours() / 24)
		if ageDays > p.MaxAgeDays {
			return false, RejectAge
		}
	}
	if c.DurationSeconds > 0 {
		if c.DurationSeconds < p.MinDurationSeconds {
			return false, RejectDuration
		}
		if p.MaxDurationSeconds > 0 && c.DurationSeconds > p.MaxDurationSeconds {
			return false, RejectDuration
		}
	}
	return true, ""
}
