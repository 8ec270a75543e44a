package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/mattn/go-sqlite3"
)

type employeeRepository struct {
	*Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{Store: store}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id int64, includeShift bool) (employee.Employee, error) {
	query := `
		SELECT e.id, e.first_name, e.last_name, e.document_number, e.email, e.shift_id,
			s.id, s.name, s.start_time, s.end_time, s.tolerance_minutes, s.created_at
		FROM employees e
		LEFT JOIN shifts s ON s.id = e.shift_id
		WHERE e.id = ?`

	var (
		emp            employee.Employee
		employeeShift  sql.NullInt64
		shiftID        sql.NullInt64
		shiftName      sql.NullString
		shiftStart     sql.NullString
		shiftEnd       sql.NullString
		shiftTolerance sql.NullInt64
		shiftCreatedAt sql.NullString
	)
	err := e.querier(ctx).QueryRowContext(ctx, query, id).Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.DocumentNumber, &emp.Email, &employeeShift,
		&shiftID, &shiftName, &shiftStart, &shiftEnd, &shiftTolerance, &shiftCreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	if employeeShift.Valid {
		emp.ShiftID = &employeeShift.Int64
	}

	if includeShift && shiftID.Valid {
		createdAt, err := parseTime(shiftCreatedAt.String)
		if err != nil {
			return employee.Employee{}, err
		}
		emp.Shift = &employee.Shift{
			ID:               shiftID.Int64,
			Name:             shiftName.String,
			StartTime:        shiftStart.String,
			EndTime:          shiftEnd.String,
			ToleranceMinutes: int(shiftTolerance.Int64),
			CreatedAt:        createdAt,
		}
	}

	return emp, nil
}

// CreateShift stores a shift with its times normalised to HH:MM. Shifts are owned by the HR system;
// this exists for seeding development databases and tests.
func (s *Store) CreateShift(ctx context.Context, shift employee.Shift) (employee.Shift, error) {
	var err error
	if shift.StartTime, err = employee.NormalizeClock(shift.StartTime); err != nil {
		return employee.Shift{}, err
	}
	if shift.EndTime, err = employee.NormalizeClock(shift.EndTime); err != nil {
		return employee.Shift{}, err
	}
	shift.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	result, err := s.querier(ctx).ExecContext(ctx, `
		INSERT INTO shifts (name, start_time, end_time, tolerance_minutes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		shift.Name, shift.StartTime, shift.EndTime, shift.ToleranceMinutes, formatTime(shift.CreatedAt),
	)
	if err != nil {
		return employee.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	if shift.ID, err = result.LastInsertId(); err != nil {
		return employee.Shift{}, fmt.Errorf("failed to read shift id: %w", err)
	}
	return shift, nil
}

// CreateEmployee stores an employee record. Like CreateShift it is used for seeding.
func (s *Store) CreateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	var shiftID sql.NullInt64
	if emp.ShiftID != nil {
		shiftID = sql.NullInt64{Int64: *emp.ShiftID, Valid: true}
	}

	result, err := s.querier(ctx).ExecContext(ctx, `
		INSERT INTO employees (first_name, last_name, document_number, email, shift_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		emp.FirstName, emp.LastName, emp.DocumentNumber, emp.Email, shiftID, formatTime(s.now()),
	)
	if err != nil {
		return employee.Employee{}, mapEmployeeConstraint(err)
	}

	if emp.ID, err = result.LastInsertId(); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to read employee id: %w", err)
	}
	emp.Shift = nil
	return emp, nil
}

func mapEmployeeConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), "employees.document_number"):
			return employee.ErrDocumentExists
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), "employees.email"):
			return employee.ErrEmailExists
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return employee.ErrShiftNotFound
		}
	}
	return fmt.Errorf("failed to create employee: %w", err)
}
