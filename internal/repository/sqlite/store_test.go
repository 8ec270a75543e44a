package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *Store, document string, shiftID *int64) employee.Employee {
	t.Helper()
	emp, err := store.CreateEmployee(context.Background(), employee.Employee{
		FirstName:      "Ana",
		LastName:       "Torres",
		DocumentNumber: document,
		Email:          document + "@example.com",
		ShiftID:        shiftID,
	})
	require.NoError(t, err)
	return emp
}

func event(employeeID int64, kind attendance.Kind, at time.Time) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID: employeeID,
		Kind:       kind,
		Latitude:   decimal.RequireFromString("-12.0463741"),
		Longitude:  decimal.RequireFromString("-77.0427935"),
		RecordedAt: at,
	}
}

func TestEmployeeRepository_GetByID(t *testing.T) {
	store := newTestStore(t)
	repo := NewEmployeeRepository(store)
	ctx := context.Background()

	shift, err := store.CreateShift(ctx, employee.Shift{Name: "Morning", StartTime: "08:00:00", EndTime: "17:00", ToleranceMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, "08:00", shift.StartTime)

	withShift := seedEmployee(t, store, "12345678", &shift.ID)
	withoutShift := seedEmployee(t, store, "87654321", nil)

	emp, err := repo.GetByID(ctx, withShift.ID, true)
	require.NoError(t, err)
	require.NotNil(t, emp.Shift)
	assert.Equal(t, "Morning", emp.Shift.Name)
	assert.Equal(t, "08:00", emp.Shift.StartTime)
	assert.Equal(t, 15, emp.Shift.ToleranceMinutes)
	require.NotNil(t, emp.ShiftID)
	assert.Equal(t, shift.ID, *emp.ShiftID)

	emp, err = repo.GetByID(ctx, withShift.ID, false)
	require.NoError(t, err)
	assert.Nil(t, emp.Shift)

	emp, err = repo.GetByID(ctx, withoutShift.ID, true)
	require.NoError(t, err)
	assert.Nil(t, emp.Shift)
	assert.Nil(t, emp.ShiftID)

	_, err = repo.GetByID(ctx, 404, true)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestStore_CreateEmployeeConstraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, store, "12345678", nil)

	_, err := store.CreateEmployee(ctx, employee.Employee{FirstName: "B", LastName: "C", DocumentNumber: "12345678", Email: "other@example.com"})
	assert.ErrorIs(t, err, employee.ErrDocumentExists)

	_, err = store.CreateEmployee(ctx, employee.Employee{FirstName: "B", LastName: "C", DocumentNumber: "99999999", Email: "12345678@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	missing := int64(42)
	_, err = store.CreateEmployee(ctx, employee.Employee{FirstName: "B", LastName: "C", DocumentNumber: "11111111", Email: "b@example.com", ShiftID: &missing})
	assert.ErrorIs(t, err, employee.ErrShiftNotFound)

	_, err = store.CreateShift(ctx, employee.Shift{Name: "Bad", StartTime: "25:00", EndTime: "17:00"})
	assert.ErrorIs(t, err, employee.ErrInvalidClock)
}

func TestAttendanceRepository_LedgerQueries(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	emp := seedEmployee(t, store, "12345678", nil)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	in1, err := repo.Create(ctx, event(emp.ID, attendance.KindEntrada, day.Add(8*time.Hour+123*time.Millisecond)))
	require.NoError(t, err)
	assert.NotZero(t, in1.ID)
	assert.False(t, in1.CreatedAt.IsZero())

	_, err = repo.Create(ctx, event(emp.ID, attendance.KindSalida, day.Add(17*time.Hour)))
	require.NoError(t, err)
	// Last millisecond of the day stays inside its window
	_, err = repo.Create(ctx, event(emp.ID, attendance.KindEntrada, day.Add(24*time.Hour-time.Millisecond)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, event(emp.ID, attendance.KindEntrada, day.Add(32*time.Hour)))
	require.NoError(t, err)

	latest, err := repo.FindLatest(ctx, emp.ID, attendance.KindEntrada, nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.RecordedAt.Equal(day.Add(32*time.Hour)))
	assert.True(t, latest.Latitude.Equal(decimal.RequireFromString("-12.0463741")))

	window := attendance.DayWindowOf(day)
	sameDay, err := repo.FindLatest(ctx, emp.ID, attendance.KindEntrada, &window)
	require.NoError(t, err)
	require.NotNil(t, sameDay)
	assert.True(t, sameDay.RecordedAt.Equal(window.End))

	none, err := repo.FindLatest(ctx, emp.ID, attendance.KindSalida, &attendance.DayWindow{Start: day.AddDate(0, 0, 5), End: day.AddDate(0, 0, 6)})
	require.NoError(t, err)
	assert.Nil(t, none)

	inWindow, err := repo.ListInWindow(ctx, emp.ID, window)
	require.NoError(t, err)
	require.Len(t, inWindow, 3)
	assert.Equal(t, in1.ID, inWindow[0].ID)
	assert.True(t, inWindow[0].RecordedAt.Equal(in1.RecordedAt))
	assert.Equal(t, attendance.KindSalida, inWindow[1].Kind)

	all, err := repo.ListByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].RecordedAt.After(all[3].RecordedAt))
}

func TestAttendanceRepository_WithinEmployeeScope(t *testing.T) {
	store := newTestStore(t)
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	emp := seedEmployee(t, store, "12345678", nil)
	at := time.Date(2025, 11, 20, 8, 0, 0, 0, time.UTC)

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.WithinEmployeeScope(ctx, emp.ID, func(ctx context.Context) error {
			_, err := repo.Create(ctx, event(emp.ID, attendance.KindEntrada, at))
			require.NoError(t, err)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		all, err := repo.ListByEmployee(ctx, emp.ID)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("serialises check then insert", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.WithinEmployeeScope(ctx, emp.ID, func(ctx context.Context) error {
					open, err := repo.FindLatest(ctx, emp.ID, attendance.KindEntrada, nil)
					if err != nil || open != nil {
						return err
					}
					if _, err := repo.Create(ctx, event(emp.ID, attendance.KindEntrada, at)); err != nil {
						return err
					}
					mu.Lock()
					created++
					mu.Unlock()
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		all, err := repo.ListByEmployee(ctx, emp.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock(1)
	unlockB := k.Lock(2)
	assert.Len(t, k.locks, 2)

	unlockA()
	unlockB()
	assert.Empty(t, k.locks)
}
