package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

// DefaultLateAlertThresholdMinutes is the lateness at which a clock-in triggers a notification.
// It is independent of the shift tolerance used by reports.
const DefaultLateAlertThresholdMinutes = 60

type Config struct {
	LateAlertThresholdMinutes int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	notificationService notification.Service
	config              Config
	now                 func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	notificationService notification.Service,
	cfg Config,
) *AttendanceServiceImpl {
	if cfg.LateAlertThresholdMinutes == 0 {
		cfg.LateAlertThresholdMinutes = DefaultLateAlertThresholdMinutes
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		notificationService:  notificationService,
		config:               cfg,
		now:                  time.Now,
	}
}

// WithClock replaces the source of "now". Used by tests.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, event attendance.ClockEvent) (attendance.Attendance, error) {
	event.RecordedAt = event.RecordedAt.UTC().Truncate(time.Millisecond)

	emp, err := a.EmployeeRepository.GetByID(ctx, event.EmployeeID, true)
	if err != nil {
		slog.Warn("Clock-in rejected", "employee_id", event.EmployeeID, "error", err)
		return attendance.Attendance{}, err
	}

	if event.RecordedAt.After(a.now()) {
		return attendance.Attendance{}, attendance.ErrFutureClockIn
	}

	var saved attendance.Attendance
	err = a.AttendanceRepository.WithinEmployeeScope(ctx, event.EmployeeID, func(ctx context.Context) error {
		lastEntrada, err := a.AttendanceRepository.FindLatest(ctx, event.EmployeeID, attendance.KindEntrada, nil)
		if err != nil {
			return fmt.Errorf("failed to get last clock-in: %w", err)
		}

		if lastEntrada != nil {
			lastSalida, err := a.AttendanceRepository.FindLatest(ctx, event.EmployeeID, attendance.KindSalida, nil)
			if err != nil {
				return fmt.Errorf("failed to get last clock-out: %w", err)
			}

			// The open ENTRADA must be closed before another one is accepted
			if lastSalida == nil || lastSalida.RecordedAt.Before(lastEntrada.RecordedAt) {
				return attendance.ErrOpenEntradaExists
			}

			if !event.RecordedAt.After(lastSalida.RecordedAt) {
				return attendance.ErrClockInBeforeLastSalida
			}
		}

		saved, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: event.EmployeeID,
			Kind:       attendance.KindEntrada,
			Latitude:   event.Latitude,
			Longitude:  event.Longitude,
			RecordedAt: event.RecordedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create clock-in record: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Clock-in rejected", "employee_id", event.EmployeeID, "error", err)
		return attendance.Attendance{}, err
	}

	a.notifyIfLate(ctx, emp, saved)

	return saved, nil
}

// notifyIfLate queues a late-arrival notification. Failures are logged and never returned.
func (a *AttendanceServiceImpl) notifyIfLate(ctx context.Context, emp employee.Employee, entrada attendance.Attendance) {
	if emp.Shift == nil {
		return
	}

	minutesLate, err := attendance.LatenessMinutes(emp.Shift.StartTime, entrada.RecordedAt)
	if err != nil {
		slog.Error("Failed to compute lateness", "employee_id", emp.ID, "shift_id", emp.Shift.ID, "error", err)
		return
	}
	if minutesLate < a.config.LateAlertThresholdMinutes {
		return
	}

	slog.Warn("Late arrival detected",
		"employee_id", emp.ID,
		"employee_name", emp.FullName(),
		"minutes_late", minutesLate,
	)

	scheduled, _ := employee.NormalizeClock(emp.Shift.StartTime)
	payload := notification.LateArrivalPayload{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.FullName(),
		ScheduledTime: scheduled,
		ActualTime:    attendance.ClockOf(entrada.RecordedAt),
		MinutesLate:   minutesLate,
		Date:          attendance.DateOf(entrada.RecordedAt),
		Email:         emp.Email,
	}

	if err := a.notificationService.EnqueueLateArrival(ctx, payload); err != nil {
		slog.Error("Failed to enqueue late arrival notification",
			"employee_id", emp.ID,
			"error", fmt.Errorf("%w: %w", notification.ErrDispatchFailed, err),
		)
	}
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, event attendance.ClockEvent) (attendance.Attendance, error) {
	event.RecordedAt = event.RecordedAt.UTC().Truncate(time.Millisecond)

	if _, err := a.EmployeeRepository.GetByID(ctx, event.EmployeeID, false); err != nil {
		slog.Warn("Clock-out rejected", "employee_id", event.EmployeeID, "error", err)
		return attendance.Attendance{}, err
	}

	day := attendance.DayWindowOf(event.RecordedAt)

	var saved attendance.Attendance
	err := a.AttendanceRepository.WithinEmployeeScope(ctx, event.EmployeeID, func(ctx context.Context) error {
		entrada, err := a.AttendanceRepository.FindLatest(ctx, event.EmployeeID, attendance.KindEntrada, &day)
		if err != nil {
			return fmt.Errorf("failed to get same-day clock-in: %w", err)
		}
		if entrada == nil {
			return attendance.ErrNoEntradaToClose
		}

		salida, err := a.AttendanceRepository.FindLatest(ctx, event.EmployeeID, attendance.KindSalida, &day)
		if err != nil {
			return fmt.Errorf("failed to get same-day clock-out: %w", err)
		}
		if salida != nil && !salida.RecordedAt.Before(entrada.RecordedAt) {
			return attendance.ErrSalidaAlreadyRecorded
		}

		if !event.RecordedAt.After(entrada.RecordedAt) {
			return attendance.ErrClockOutBeforeEntrada
		}

		saved, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID: event.EmployeeID,
			Kind:       attendance.KindSalida,
			Latitude:   event.Latitude,
			Longitude:  event.Longitude,
			RecordedAt: event.RecordedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create clock-out record: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Clock-out rejected", "employee_id", event.EmployeeID, "date", attendance.DateOf(event.RecordedAt), "error", err)
		return attendance.Attendance{}, err
	}

	return saved, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, employeeID int64) ([]attendance.Attendance, error) {
	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID, false); err != nil {
		return nil, err
	}

	attendances, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	slog.Debug("Attendance history loaded", "employee_id", employeeID, "count", len(attendances))
	return attendances, nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
