package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "attendance-control"
	appVersion = "v1.0.0"
)

func NewRouter(cfg config.AppConfig, attendanceHandler AttendanceHandler, reportHandler ReportHandler, notificationHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.Env),
	)

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)

			r.Route("/employees/{id}", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Get("/report", reportHandler.GetAttendanceReport)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/failed", notificationHandler.ListFailed)
		})
	})

	return r
}
