// Package observation models a single detector or ground-truth reading: the
// frame index at which a fire event was flagged, or no event at all.
package observation

import (
	"fmt"
	"strconv"
	"strings"
)

// absentSentinel is how older tooling wrote "no event" into a sample file.
const absentSentinel = -1

// Observation is an optional non-negative frame index.
// The zero value is absent.
type Observation struct {
	frame   int
	present bool
}

// Absent returns an observation with no event.
func Absent() Observation {
	return Observation{}
}

// At returns an observation of an event at frame.
func At(frame int) Observation {
	return Observation{frame: frame, present: true}
}

// Present reports whether an event was recorded.
func (o Observation) Present() bool { return o.present }

// Frame returns the event frame. It is 0 for an absent observation.
func (o Observation) Frame() int { return o.frame }

func (o Observation) String() string {
	if !o.present {
		return "-"
	}
	return strconv.Itoa(o.frame)
}

// Parse decodes the full content of a sample file.
// Blank content and the legacy -1 sentinel decode to Absent.
func Parse(raw string) (Observation, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent(), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidObservation, s)
	}
	switch {
	case n == absentSentinel:
		return Absent(), nil
	case n < 0:
		return Observation{}, fmt.Errorf("%w: negative frame %d", ErrInvalidObservation, n)
	}
	return At(n), nil
}
