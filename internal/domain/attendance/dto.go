package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ClockEventRequest is the body of both clock-in and clock-out.
type ClockEventRequest struct {
	EmployeeID int64    `json:"employee_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	RecordedAt string   `json:"recorded_at"` // ISO-8601 instant

	recordedAt time.Time
}

func (r *ClockEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive integer",
		})
	}

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if validator.IsEmpty(r.RecordedAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "recorded_at",
			Message: "recorded_at is required",
		})
	} else if t, valid := validator.IsValidDateTime(r.RecordedAt); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "recorded_at",
			Message: "recorded_at must be an ISO-8601 timestamp",
		})
	} else {
		r.recordedAt = t
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ClockEvent converts a validated request into the service command.
func (r *ClockEventRequest) ClockEvent() ClockEvent {
	return NewClockEvent(r.EmployeeID, r.recordedAt, *r.Latitude, *r.Longitude)
}

type AttendanceResponse struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employee_id"`
	Kind       Kind            `json:"kind"`
	Latitude   decimal.Decimal `json:"latitude"`
	Longitude  decimal.Decimal `json:"longitude"`
	RecordedAt string          `json:"recorded_at"`
	CreatedAt  string          `json:"created_at"`
}

// NewAttendanceResponse maps a stored event to its API shape.
func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Kind:       a.Kind,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
		RecordedAt: a.RecordedAt.UTC().Format(TimestampLayout),
		CreatedAt:  a.CreatedAt.UTC().Format(TimestampLayout),
	}
}

// TimestampLayout is RFC 3339 with fixed millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type ListAttendanceResponse struct {
	EmployeeID  int64                `json:"employee_id"`
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}
