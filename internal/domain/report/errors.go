package report

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"

var (
	ErrNoShiftAssigned   = attendance.Invalid("employee has no shift assigned")
	ErrDateRangeRequired = attendance.Invalid("start date and end date are required")
)
