package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

// GenerateAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateAttendanceReport(ctx context.Context, employeeID int64, startDate, endDate time.Time) (report.AttendanceReport, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, true)
	if err != nil {
		slog.Warn("Report generation rejected", "employee_id", employeeID, "error", err)
		return report.AttendanceReport{}, err
	}

	if emp.Shift == nil {
		slog.Warn("Report generation rejected", "employee_id", employeeID, "error", report.ErrNoShiftAssigned)
		return report.AttendanceReport{}, report.ErrNoShiftAssigned
	}

	if startDate.IsZero() || endDate.IsZero() {
		slog.Warn("Report generation rejected", "employee_id", employeeID, "error", report.ErrDateRangeRequired)
		return report.AttendanceReport{}, report.ErrDateRangeRequired
	}

	scheduled, err := employee.NormalizeClock(emp.Shift.StartTime)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("invalid start time on shift %d: %w", emp.Shift.ID, err)
	}

	attendances, err := s.attendanceRepo.ListInWindow(ctx, employeeID, attendance.SpanWindow(startDate, endDate))
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get attendances: %w", err)
	}

	totalDaysExpected := CountWorkingDays(startDate, endDate)

	// Keyed by date: the last ENTRADA of a day wins the slot. Lateness is still
	// counted for every ENTRADA, including superseded same-day ones.
	entradasByDate := make(map[string]attendance.Attendance)
	lateArrivalDetails := make([]report.LateArrivalDetail, 0)

	for _, att := range attendances {
		if att.Kind != attendance.KindEntrada {
			continue
		}

		date := attendance.DateOf(att.RecordedAt)
		entradasByDate[date] = att

		minutesLate, err := attendance.LatenessMinutes(scheduled, att.RecordedAt)
		if err != nil {
			return report.AttendanceReport{}, err
		}

		if minutesLate > emp.Shift.ToleranceMinutes {
			lateArrivalDetails = append(lateArrivalDetails, report.LateArrivalDetail{
				Date:          date,
				ScheduledTime: scheduled,
				ActualTime:    attendance.ClockOf(att.RecordedAt),
				MinutesLate:   minutesLate,
			})
		}
	}

	daysAttended := len(entradasByDate)

	attendancePercentage := 0
	if totalDaysExpected > 0 {
		attendancePercentage = int(math.Round(float64(daysAttended) / float64(totalDaysExpected) * 100))
	}

	return report.AttendanceReport{
		EmployeeID:           emp.ID,
		EmployeeName:         emp.FullName(),
		TotalDaysExpected:    totalDaysExpected,
		DaysAttended:         daysAttended,
		DaysAbsent:           totalDaysExpected - daysAttended,
		LateArrivals:         len(lateArrivalDetails),
		AttendancePercentage: attendancePercentage,
		ReportPeriod: report.ReportPeriod{
			StartDate: attendance.DateOf(startDate),
			EndDate:   attendance.DateOf(endDate),
		},
		LateArrivalDetails: lateArrivalDetails,
	}, nil
}

// CountWorkingDays counts Monday-Friday UTC calendar days in [startDate, endDate].
// A reversed range yields zero.
func CountWorkingDays(startDate, endDate time.Time) int {
	count := 0
	end := attendance.StartOfDay(endDate)
	for day := attendance.StartOfDay(startDate); !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
