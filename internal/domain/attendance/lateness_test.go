package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

func TestLatenessMinutes(t *testing.T) {
	day := func(h, m, s int) time.Time {
		return time.Date(2025, time.November, 20, h, m, s, 0, time.UTC)
	}

	cases := []struct {
		scheduled string
		actual    time.Time
		want      int
	}{
		{"08:00", day(9, 25, 0), 85},
		{"08:00", day(7, 50, 0), -10},
		{"08:00", day(8, 0, 59), 0},
		{"08:00", day(9, 0, 0), 60},
		{"08:00:00", day(8, 30, 0), 30},
		{"22:00", day(0, 15, 0), -1305},
		// non-UTC instants are compared on their UTC clock
		{"08:00", time.Date(2025, time.November, 20, 16, 10, 0, 0, time.FixedZone("WIB", 7*3600)), 70},
	}
	for _, c := range cases {
		got, err := LatenessMinutes(c.scheduled, c.actual)
		if err != nil {
			t.Errorf("LatenessMinutes(%q, %v) error = %v", c.scheduled, c.actual, err)
			continue
		}
		if got != c.want {
			t.Errorf("LatenessMinutes(%q, %v) = %d, want %d", c.scheduled, c.actual, got, c.want)
		}
	}
}

func TestLatenessMinutes_InvalidSchedule(t *testing.T) {
	for _, s := range []string{"", "8", "24:00", "08:60", "aa:bb", "08:00:00:00"} {
		_, err := LatenessMinutes(s, time.Now())
		if !errors.Is(err, employee.ErrInvalidClock) {
			t.Errorf("LatenessMinutes(%q) error = %v, want ErrInvalidClock", s, err)
		}
	}
}

func TestDayWindowOf(t *testing.T) {
	at := time.Date(2025, time.November, 20, 15, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	w := DayWindowOf(at)

	wantStart := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.November, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
		t.Errorf("DayWindowOf(%v) = [%v, %v], want [%v, %v]", at, w.Start, w.End, wantStart, wantEnd)
	}
	if !w.Contains(wantStart) || !w.Contains(wantEnd) {
		t.Errorf("DayWindowOf bounds must be inclusive")
	}
	if w.Contains(wantEnd.Add(time.Millisecond)) {
		t.Errorf("DayWindowOf must not contain the next day")
	}
}

func TestNewClockEvent_Normalises(t *testing.T) {
	at := time.Date(2025, time.November, 20, 8, 30, 0, 123456789, time.FixedZone("PET", -5*3600))
	ev := NewClockEvent(7, at, -12.04637412345, -77.0427935)

	if ev.RecordedAt.Location() != time.UTC {
		t.Errorf("RecordedAt location = %v, want UTC", ev.RecordedAt.Location())
	}
	if ev.RecordedAt.Nanosecond() != 123000000 {
		t.Errorf("RecordedAt nanos = %d, want truncation to milliseconds", ev.RecordedAt.Nanosecond())
	}
	if got := ev.Latitude.String(); got != "-12.0463741" {
		t.Errorf("Latitude = %s, want -12.0463741", got)
	}
	if got := ev.Longitude.String(); got != "-77.0427935" {
		t.Errorf("Longitude = %s, want -77.0427935", got)
	}
}
