package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidClock     = errors.New("time of day must be in HH:MM format")
	ErrDocumentExists   = errors.New("document number already registered")
	ErrEmailExists      = errors.New("email already registered")
)
