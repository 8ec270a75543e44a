package notification

import (
	"context"
)

// Service is the asynchronous, at-least-once notification channel.
type Service interface {
	// EnqueueLateArrival accepts a payload for background delivery. It never blocks on delivery;
	// it returns an error only when the job could not be accepted.
	EnqueueLateArrival(ctx context.Context, payload LateArrivalPayload) error

	// Failed lists jobs that exhausted their attempts.
	Failed() []FailedJobResponse
}

// Sender delivers a late-arrival notification. Returning an error schedules a retry.
type Sender interface {
	SendLateArrival(ctx context.Context, payload LateArrivalPayload) error
}
