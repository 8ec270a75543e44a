package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE REPORT
// ========================================

// AttendanceReportRequest carries the query string of a report request. Empty dates are
// defaulted by the handler before the service is called.
type AttendanceReportRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD

	startDate time.Time
	endDate   time.Time
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive integer",
		})
	}

	if d, valid := validator.IsValidDate(r.StartDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	} else {
		r.startDate = d
	}

	if d, valid := validator.IsValidDate(r.EndDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	} else {
		r.endDate = d
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed dates of a validated request.
func (r *AttendanceReportRequest) Period() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type AttendanceReport struct {
	EmployeeID           int64               `json:"employee_id"`
	EmployeeName         string              `json:"employee_name"`
	TotalDaysExpected    int                 `json:"total_days_expected"`
	DaysAttended         int                 `json:"days_attended"`
	DaysAbsent           int                 `json:"days_absent"` // not clamped: negative flags more attended days than expected
	LateArrivals         int                 `json:"late_arrivals"`
	AttendancePercentage int                 `json:"attendance_percentage"`
	ReportPeriod         ReportPeriod        `json:"report_period"`
	LateArrivalDetails   []LateArrivalDetail `json:"late_arrival_details"`
}

type ReportPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type LateArrivalDetail struct {
	Date          string `json:"date"`
	ScheduledTime string `json:"scheduled_time"`
	ActualTime    string `json:"actual_time"`
	MinutesLate   int    `json:"minutes_late"`
}
