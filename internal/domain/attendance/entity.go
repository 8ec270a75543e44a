package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the type of a clock event.
type Kind string

const (
	KindEntrada Kind = "ENTRADA" // clock-in
	KindSalida  Kind = "SALIDA"  // clock-out
)

// CoordinateScale is the number of decimal places kept for latitude/longitude.
const CoordinateScale = 7

// Attendance is a single append-only clock event. Rows are never updated or deleted.
type Attendance struct {
	ID         int64
	EmployeeID int64
	Kind       Kind
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	RecordedAt time.Time // business time the action happened
	CreatedAt  time.Time // time the system stored the row
}

// ClockEvent is a validated clock-in or clock-out command.
type ClockEvent struct {
	EmployeeID int64
	RecordedAt time.Time
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
}

// NewClockEvent normalises coordinates to CoordinateScale and the timestamp to UTC milliseconds,
// the precision the record store keeps.
func NewClockEvent(employeeID int64, recordedAt time.Time, latitude, longitude float64) ClockEvent {
	return ClockEvent{
		EmployeeID: employeeID,
		RecordedAt: recordedAt.UTC().Truncate(time.Millisecond),
		Latitude:   decimal.NewFromFloat(latitude).Round(CoordinateScale),
		Longitude:  decimal.NewFromFloat(longitude).Round(CoordinateScale),
	}
}

// DayWindow is an inclusive UTC time range used to scope ledger queries.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindowOf returns [00:00:00.000, 23:59:59.999] UTC of the calendar day containing t.
func DayWindowOf(t time.Time) DayWindow {
	return SpanWindow(t, t)
}

// SpanWindow returns the window from the start of from's UTC day to the end of to's UTC day.
func SpanWindow(from, to time.Time) DayWindow {
	return DayWindow{
		Start: StartOfDay(from),
		End:   StartOfDay(to).Add(24*time.Hour - time.Millisecond),
	}
}

// Contains reports whether t falls inside the window, bounds included.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
