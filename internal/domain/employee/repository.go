package employee

import "context"

// EmployeeRepository is the read side of the employee/shift records the attendance core depends on.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no employee has the given id.
	// When includeShift is true the assigned shift (if any) is loaded into Employee.Shift.
	GetByID(ctx context.Context, id int64, includeShift bool) (Employee, error)
}
