package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const attendanceColumns = `id, employee_id, kind, latitude::text, longitude::text, recorded_at, created_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, kind, latitude, longitude, recorded_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		string(newAttendance.Kind),
		newAttendance.Latitude.StringFixed(attendance.CoordinateScale),
		newAttendance.Longitude.StringFixed(attendance.CoordinateScale),
		newAttendance.RecordedAt.UTC(),
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	newAttendance.CreatedAt = newAttendance.CreatedAt.UTC()
	return newAttendance, nil
}

// FindLatest implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindLatest(ctx context.Context, employeeID int64, kind attendance.Kind, window *attendance.DayWindow) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND kind = $2`
	args := []interface{}{employeeID, string(kind)}

	if window != nil {
		query += ` AND recorded_at BETWEEN $3 AND $4`
		args = append(args, window.Start, window.End)
	}
	query += ` ORDER BY recorded_at DESC, id DESC LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest %s: %w", kind, err)
	}

	return &att, nil
}

// ListInWindow implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInWindow(ctx context.Context, employeeID int64, window attendance.DayWindow) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND recorded_at BETWEEN $2 AND $3
		ORDER BY recorded_at ASC, id ASC`

	return a.list(ctx, query, employeeID, window.Start, window.End)
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		ORDER BY recorded_at DESC, id DESC`

	return a.list(ctx, query, employeeID)
}

// WithinEmployeeScope implements attendance.AttendanceRepository. The scope is a transaction holding
// a transaction-level advisory lock on the employee id, released on commit or rollback.
func (a *attendanceRepository) WithinEmployeeScope(ctx context.Context, employeeID int64, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, a.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, employeeID); err != nil {
			return fmt.Errorf("failed to lock employee %d: %w", employeeID, err)
		}
		return fn(ctx)
	})
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
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

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att       attendance.Attendance
		kind      string
		latitude  string
		longitude string
	)
	if err := row.Scan(&att.ID, &att.EmployeeID, &kind, &latitude, &longitude, &att.RecordedAt, &att.CreatedAt); err != nil {
		return attendance.Attendance{}, err
	}

	var err error
	if att.Latitude, err = decimal.NewFromString(latitude); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid latitude %q: %w", latitude, err)
	}
	if att.Longitude, err = decimal.NewFromString(longitude); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid longitude %q: %w", longitude, err)
	}
	att.Kind = attendance.Kind(kind)
	att.RecordedAt = att.RecordedAt.UTC()
	att.CreatedAt = att.CreatedAt.UTC()

	return att, nil
}
