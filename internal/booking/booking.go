// Package booking holds the reservation business rules: the bookable hour
// window, the participant cap and the time-conflict test. Times are
// zero-padded "HH:MM" wall-clock strings throughout, so interval comparisons
// are plain lexicographic string comparisons.
package booking

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// Reservations must fall inside the 8:00-17:00 working day. The gate is
	// hour-granular: only the hour component of each time is checked.
	OpenHour  = 8
	CloseHour = 17

	MaxParticipants = 20
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range. Reservations must be between 8:00 AM and 5:00 PM")
	ErrCapacityExceeded = errors.New("maximum participants cannot exceed 20 people")
	ErrMalformedTime    = errors.New("malformed time, expected HH:MM")
)

// Interval is a half-open [Start,End) conflict window on a single venue/date.
type Interval struct {
	Start string
	End   string
}

// ValidateHourWindow rejects a candidate whose start hour is before opening,
// whose end hour is after closing, or whose start hour is not strictly
// before its end hour. Minutes are deliberately ignored, so 8:30-9:00 passes.
func ValidateHourWindow(start, end string) error {
	startHour, err := hourOf(start)
	if err != nil {
		return err
	}
	endHour, err := hourOf(end)
	if err != nil {
		return err
	}

	if startHour < OpenHour || endHour > CloseHour || startHour >= endHour {
		return ErrInvalidTimeRange
	}

	return nil
}

func ValidateParticipants(n int) error {
	if n > MaxParticipants {
		return ErrCapacityExceeded
	}
	return nil
}

// Overlaps reports whether two conflict windows intersect. A candidate
// conflicts when its start falls within [existing.Start, existing.End), its
// end falls within (existing.Start, existing.End], or it fully contains the
// existing interval. Boundary-adjacent intervals (one ends exactly where the
// other starts) do not conflict.
func Overlaps(candidate, existing Interval) bool {
	if candidate.Start >= existing.Start && candidate.Start < existing.End {
		return true
	}
	if candidate.End > existing.Start && candidate.End <= existing.End {
		return true
	}
	if candidate.Start <= existing.Start && candidate.End >= existing.End {
		return true
	}
	return false
}

// FindConflict returns the first existing interval that overlaps the
// candidate. No ordering is guaranteed beyond the order of the input slice.
func FindConflict(candidate Interval, existing []Interval) (Interval, bool) {
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			return iv, true
		}
	}
	return Interval{}, false
}

func hourOf(t string) (int, error) {
	hh, _, found := strings.Cut(t, ":")
	if !found {
		return 0, ErrMalformedTime
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, ErrMalformedTime
	}

	return hour, nil
}
