package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// NotificationHandler exposes the dispatcher's failed jobs for inspection
type NotificationHandler interface {
	ListFailed(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
	}
}

// ListFailed handles GET /notifications/failed
func (h *notificationHandlerImpl) ListFailed(w http.ResponseWriter, r *http.Request) {
	failed := h.notifService.Failed()
	response.SuccessWithMeta(w, failed, &response.Meta{TotalItems: int64(len(failed))})
}
