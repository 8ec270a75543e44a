package notification

import "errors"

// Notification domain errors
var (
	ErrDispatchFailed    = errors.New("notification dispatch failed")
	ErrQueueFull         = errors.New("notification queue is full")
	ErrDispatcherStopped = errors.New("notification dispatcher is stopped")
)
