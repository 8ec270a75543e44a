package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// ClockOf returns the UTC wall-clock time of t as HH:MM.
func ClockOf(t time.Time) string {
	return t.UTC().Format("15:04")
}

// DateOf returns the UTC calendar date of t as YYYY-MM-DD.
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// LatenessMinutes compares the UTC time of day of actual with scheduledStart ("HH:MM").
// The result is negative for early arrivals. Seconds are ignored on both sides. Callers decide
// the threshold that counts as late.
func LatenessMinutes(scheduledStart string, actual time.Time) (int, error) {
	scheduled, err := employee.ParseClock(scheduledStart)
	if err != nil {
		return 0, err
	}

	u := actual.UTC()
	return u.Hour()*60 + u.Minute() - scheduled, nil
}
