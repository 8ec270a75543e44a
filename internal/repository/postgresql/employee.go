package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id int64, includeShift bool) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT e.id, e.first_name, e.last_name, e.document_number, e.email, e.shift_id,
			   s.id, s.name, to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
			   s.tolerance_minutes, s.created_at
		FROM employees e
		LEFT JOIN shifts s ON s.id = e.shift_id
		WHERE e.id = $1
	`

	var (
		emp            employee.Employee
		shiftID        *int64
		shiftName      *string
		shiftStart     *string
		shiftEnd       *string
		shiftTolerance *int
		shiftCreatedAt *time.Time
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.DocumentNumber, &emp.Email, &emp.ShiftID,
		&shiftID, &shiftName, &shiftStart, &shiftEnd, &shiftTolerance, &shiftCreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	if includeShift && shiftID != nil {
		emp.Shift = &employee.Shift{
			ID:               *shiftID,
			Name:             *shiftName,
			StartTime:        *shiftStart,
			EndTime:          *shiftEnd,
			ToleranceMinutes: *shiftTolerance,
			CreatedAt:        shiftCreatedAt.UTC(),
		}
	}

	return emp, nil
}
