package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Employee is owned by the surrounding HR system; attendance only reads it.
type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	DocumentNumber string
	Email          string
	ShiftID        *int64

	// Loaded only when requested with includeShift
	Shift *Shift
}

// FullName returns "first last" as shown in reports and notifications.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Shift struct {
	ID               int64
	Name             string
	StartTime        string // HH:MM
	EndTime          string // HH:MM
	ToleranceMinutes int
	CreatedAt        time.Time
}

// ParseClock converts an "HH:MM" (or "HH:MM:SS") time of day into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}

	return hours*60 + minutes, nil
}

// NormalizeClock trims a stored time of day down to HH:MM.
func NormalizeClock(clock string) (string, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}
