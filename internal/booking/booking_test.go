package booking

import (
	"errors"
	"testing"
)

func TestValidateHourWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "full working day", start: "08:00", end: "17:00", wantErr: nil},
		{name: "one hour slot", start: "09:00", end: "10:00", wantErr: nil},
		{name: "half hour inside same hours", start: "08:30", end: "09:00", wantErr: nil},
		{name: "ends on closing hour with minutes", start: "16:00", end: "17:30", wantErr: nil},
		{name: "starts before opening", start: "07:00", end: "09:00", wantErr: ErrInvalidTimeRange},
		{name: "ends after closing", start: "16:00", end: "18:00", wantErr: ErrInvalidTimeRange},
		{name: "start hour equals end hour", start: "09:00", end: "09:30", wantErr: ErrInvalidTimeRange},
		{name: "start after end", start: "11:00", end: "10:00", wantErr: ErrInvalidTimeRange},
		{name: "malformed start", start: "nine", end: "10:00", wantErr: ErrMalformedTime},
		{name: "missing separator", start: "0900", end: "10:00", wantErr: ErrMalformedTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHourWindow(tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateHourWindow(%q, %q) = %v, want %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestValidateParticipants(t *testing.T) {
	if err := ValidateParticipants(20); err != nil {
		t.Errorf("ValidateParticipants(20) = %v, want nil", err)
	}
	if err := ValidateParticipants(0); err != nil {
		t.Errorf("ValidateParticipants(0) = %v, want nil", err)
	}
	if err := ValidateParticipants(21); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("ValidateParticipants(21) = %v, want %v", err, ErrCapacityExceeded)
	}
}

func TestOverlaps(t *testing.T) {
	existing := Interval{Start: "09:00", End: "10:00"}

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{name: "identical", candidate: Interval{"09:00", "10:00"}, want: true},
		{name: "starts inside", candidate: Interval{"09:30", "10:30"}, want: true},
		{name: "ends inside", candidate: Interval{"08:30", "09:30"}, want: true},
		{name: "fully contains", candidate: Interval{"08:00", "11:00"}, want: true},
		{name: "fully contained", candidate: Interval{"09:15", "09:45"}, want: true},
		{name: "adjacent after", candidate: Interval{"10:00", "11:00"}, want: false},
		{name: "adjacent before", candidate: Interval{"08:00", "09:00"}, want: false},
		{name: "disjoint after", candidate: Interval{"11:00", "12:00"}, want: false},
		{name: "disjoint before", candidate: Interval{"07:00", "08:00"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.candidate, existing); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.candidate, existing, got, tt.want)
			}
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := []struct {
		a, b Interval
	}{
		{Interval{"09:00", "10:00"}, Interval{"09:30", "10:30"}},
		{Interval{"09:00", "10:00"}, Interval{"10:00", "11:00"}},
		{Interval{"08:00", "12:00"}, Interval{"09:00", "10:00"}},
	}

	for _, p := range pairs {
		if Overlaps(p.a, p.b) != Overlaps(p.b, p.a) {
			t.Errorf("Overlaps not symmetric for %v / %v", p.a, p.b)
		}
	}
}

func TestFindConflict(t *testing.T) {
	existing := []Interval{
		{"08:00", "09:00"},
		{"10:00", "11:00"},
		{"14:00", "16:00"},
	}

	t.Run("no conflict in a free slot", func(t *testing.T) {
		_, found := FindConflict(Interval{"09:00", "10:00"}, existing)
		if found {
			t.Error("FindConflict found a conflict in a free slot")
		}
	})

	t.Run("reports the first overlapping interval", func(t *testing.T) {
		got, found := FindConflict(Interval{"08:30", "10:30"}, existing)
		if !found {
			t.Fatal("FindConflict found no conflict, want one")
		}
		if got != existing[0] {
			t.Errorf("FindConflict = %v, want %v", got, existing[0])
		}
	})

	t.Run("empty existing set", func(t *testing.T) {
		_, found := FindConflict(Interval{"08:00", "17:00"}, nil)
		if found {
			t.Error("FindConflict found a conflict against no reservations")
		}
	})
}
