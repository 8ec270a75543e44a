package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(employeeID int64, kind attendance.Kind, at time.Time) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID: employeeID,
		Kind:       kind,
		Latitude:   decimal.RequireFromString("-12.0463741"),
		Longitude:  decimal.RequireFromString("-77.0427935"),
		RecordedAt: at,
	}
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	shiftID := seedShift(t, db, "08:00", 15)
	withShift := seedEmployee(t, db, "12345678", &shiftID)
	withoutShift := seedEmployee(t, db, "87654321", nil)

	t.Run("loads shift", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, withShift, true)
		require.NoError(t, err)
		require.NotNil(t, emp.Shift)
		assert.Equal(t, "08:00", emp.Shift.StartTime)
		assert.Equal(t, 15, emp.Shift.ToleranceMinutes)
		assert.Equal(t, "Ana Torres", emp.FullName())
	})

	t.Run("shift omitted when not requested", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, withShift, false)
		require.NoError(t, err)
		assert.Nil(t, emp.Shift)
		require.NotNil(t, emp.ShiftID)
		assert.Equal(t, shiftID, *emp.ShiftID)
	})

	t.Run("no shift assigned", func(t *testing.T) {
		emp, err := repo.GetByID(ctx, withoutShift, true)
		require.NoError(t, err)
		assert.Nil(t, emp.Shift)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999, true)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestAttendanceRepository_LedgerQueries(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	empID := seedEmployee(t, db, "12345678", nil)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	in1, err := repo.Create(ctx, newEvent(empID, attendance.KindEntrada, day.Add(8*time.Hour)))
	require.NoError(t, err)
	assert.NotZero(t, in1.ID)
	assert.False(t, in1.CreatedAt.IsZero())

	_, err = repo.Create(ctx, newEvent(empID, attendance.KindSalida, day.Add(17*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newEvent(empID, attendance.KindEntrada, day.Add(32*time.Hour)))
	require.NoError(t, err)

	latest, err := repo.FindLatest(ctx, empID, attendance.KindEntrada, nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.RecordedAt.Equal(day.Add(32*time.Hour)))
	assert.Equal(t, "-12.0463741", latest.Latitude.StringFixed(attendance.CoordinateScale))

	window := attendance.DayWindowOf(day)
	sameDay, err := repo.FindLatest(ctx, empID, attendance.KindEntrada, &window)
	require.NoError(t, err)
	require.NotNil(t, sameDay)
	assert.Equal(t, in1.ID, sameDay.ID)

	none, err := repo.FindLatest(ctx, empID+1, attendance.KindSalida, nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	inWindow, err := repo.ListInWindow(ctx, empID, window)
	require.NoError(t, err)
	require.Len(t, inWindow, 2)
	assert.Equal(t, attendance.KindEntrada, inWindow[0].Kind)
	assert.Equal(t, attendance.KindSalida, inWindow[1].Kind)

	all, err := repo.ListByEmployee(ctx, empID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].RecordedAt.After(all[2].RecordedAt))
}

func TestAttendanceRepository_WithinEmployeeScopeSerialises(t *testing.T) {
	db := newTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	empID := seedEmployee(t, db, "12345678", nil)
	at := time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithinEmployeeScope(ctx, empID, func(ctx context.Context) error {
				open, err := repo.FindLatest(ctx, empID, attendance.KindEntrada, nil)
				if err != nil || open != nil {
					return err
				}
				_, err = repo.Create(ctx, newEvent(empID, attendance.KindEntrada, at))
				if err == nil {
					mu.Lock()
					created++
					mu.Unlock()
				}
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	all, err := repo.ListByEmployee(ctx, empID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
