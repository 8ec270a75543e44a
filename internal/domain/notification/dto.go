package notification

import "time"

// JobKind names the kind of work queued on the dispatcher.
type JobKind string

const (
	KindLateArrival JobKind = "late-arrival"
)

// LateArrivalPayload is queued when a clock-in is at or past the alert threshold.
type LateArrivalPayload struct {
	EmployeeID    int64  `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	ScheduledTime string `json:"scheduled_time"` // HH:MM
	ActualTime    string `json:"actual_time"`    // HH:MM
	MinutesLate   int    `json:"minutes_late"`
	Date          string `json:"date"` // YYYY-MM-DD of the clock-in
	Email         string `json:"email"`
}

// FailedJobResponse describes a job retained after exhausting its attempts.
type FailedJobResponse struct {
	ID         string             `json:"id"`
	Kind       JobKind            `json:"kind"`
	Payload    LateArrivalPayload `json:"payload"`
	Attempts   int                `json:"attempts"`
	LastError  string             `json:"last_error"`
	EnqueuedAt time.Time          `json:"enqueued_at"`
	FailedAt   time.Time          `json:"failed_at"`
}
