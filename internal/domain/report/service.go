package report

import (
	"context"
	"time"
)

// ReportService builds attendance reports over a date range.
type ReportService interface {
	// GenerateAttendanceReport aggregates the employee's ledger between startDate and endDate,
	// both inclusive UTC calendar days. A zero date counts as not provided.
	GenerateAttendanceReport(ctx context.Context, employeeID int64, startDate, endDate time.Time) (AttendanceReport, error)
}
