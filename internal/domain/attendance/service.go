package attendance

import (
	"context"
)

// AttendanceService validates and records clock events.
type AttendanceService interface {
	// ClockIn records an ENTRADA. A late-arrival notification may be queued as a side effect;
	// its failure never fails the clock-in.
	ClockIn(ctx context.Context, event ClockEvent) (Attendance, error)

	// ClockOut records a SALIDA closing the same-day open ENTRADA.
	ClockOut(ctx context.Context, event ClockEvent) (Attendance, error)

	// ListAttendance returns every event of the employee, newest first.
	ListAttendance(ctx context.Context, employeeID int64) ([]Attendance, error)
}
