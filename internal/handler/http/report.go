package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		now:           time.Now,
	}
}

// GetAttendanceReport handles GET /attendance/employees/{id}/report
// Missing dates default to the first day of the current month and today.
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	today := h.now().UTC()
	req := report.AttendanceReportRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}
	if req.StartDate == "" {
		req.StartDate = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	if req.EndDate == "" {
		req.EndDate = today.Format("2006-01-02")
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	startDate, endDate := req.Period()
	result, err := h.reportService.GenerateAttendanceReport(r.Context(), employeeID, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
