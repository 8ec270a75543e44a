package attendance

import (
	"context"
)

// AttendanceRepository is the ledger accessor: it reads and appends clock events for one employee.
// There is no update or delete.
type AttendanceRepository interface {
	// Create appends a clock event and returns it with ID and CreatedAt set.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// FindLatest returns the most recent event of the given kind by RecordedAt, optionally
	// restricted to window. Returns nil, nil when there is none.
	FindLatest(ctx context.Context, employeeID int64, kind Kind, window *DayWindow) (*Attendance, error)

	// ListInWindow returns the employee's events inside window ordered by RecordedAt ascending.
	ListInWindow(ctx context.Context, employeeID int64, window DayWindow) ([]Attendance, error)

	// ListByEmployee returns all events of the employee, newest first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]Attendance, error)

	// WithinEmployeeScope runs fn while holding an exclusive per-employee scope. Repository calls
	// made with the ctx passed to fn share the scope's transaction.
	WithinEmployeeScope(ctx context.Context, employeeID int64, fn func(ctx context.Context) error) error
}
