package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

const attendanceColumns = `id, employee_id, kind, latitude, longitude, recorded_at, created_at`

type attendanceRepository struct {
	*Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{Store: store}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	newAttendance.CreatedAt = a.now().UTC().Truncate(time.Millisecond)

	result, err := a.querier(ctx).ExecContext(ctx, `
		INSERT INTO attendances (employee_id, kind, latitude, longitude, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		newAttendance.EmployeeID,
		string(newAttendance.Kind),
		newAttendance.Latitude.StringFixed(attendance.CoordinateScale),
		newAttendance.Longitude.StringFixed(attendance.CoordinateScale),
		formatTime(newAttendance.RecordedAt),
		formatTime(newAttendance.CreatedAt),
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	newAttendance.ID, err = result.LastInsertId()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to read attendance id: %w", err)
	}

	return newAttendance, nil
}

// FindLatest implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindLatest(ctx context.Context, employeeID int64, kind attendance.Kind, window *attendance.DayWindow) (*attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = ? AND kind = ?`
	args := []any{employeeID, string(kind)}

	if window != nil {
		query += ` AND recorded_at BETWEEN ? AND ?`
		args = append(args, formatTime(window.Start), formatTime(window.End))
	}
	query += ` ORDER BY recorded_at DESC, id DESC LIMIT 1`

	att, err := scanAttendance(a.querier(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest %s: %w", kind, err)
	}

	return &att, nil
}

// ListInWindow implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInWindow(ctx context.Context, employeeID int64, window attendance.DayWindow) ([]attendance.Attendance, error) {
	return a.list(ctx, `SELECT `+attendanceColumns+` FROM attendances
		WHERE employee_id = ? AND recorded_at BETWEEN ? AND ?
		ORDER BY recorded_at ASC, id ASC`,
		employeeID, formatTime(window.Start), formatTime(window.End),
	)
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]attendance.Attendance, error) {
	return a.list(ctx, `SELECT `+attendanceColumns+` FROM attendances
		WHERE employee_id = ?
		ORDER BY recorded_at DESC, id DESC`,
		employeeID,
	)
}

// WithinEmployeeScope implements attendance.AttendanceRepository. A nested call on a context that
// already carries a transaction joins it without locking again.
func (a *attendanceRepository) WithinEmployeeScope(ctx context.Context, employeeID int64, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	unlock := a.locks.Lock(employeeID)
	defer unlock()

	return a.withTransaction(ctx, fn)
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	rows, err := a.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}

	return attendances, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		att                   attendance.Attendance
		kind                  string
		latitude, longitude   string
		recordedAt, createdAt string
	)
	if err := row.Scan(&att.ID, &att.EmployeeID, &kind, &latitude, &longitude, &recordedAt, &createdAt); err != nil {
		return attendance.Attendance{}, err
	}

	var err error
	if att.Latitude, err = decimal.NewFromString(latitude); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid latitude %q: %w", latitude, err)
	}
	if att.Longitude, err = decimal.NewFromString(longitude); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid longitude %q: %w", longitude, err)
	}
	if att.RecordedAt, err = parseTime(recordedAt); err != nil {
		return attendance.Attendance{}, err
	}
	if att.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.Attendance{}, err
	}
	att.Kind = attendance.Kind(kind)

	return att, nil
}
