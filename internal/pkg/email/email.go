package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService renders and sends notification emails. A failed send is returned to the caller,
// which owns retries.
type EmailService interface {
	SendLateArrival(ctx context.Context, payload notification.LateArrivalPayload) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

type lateArrivalEmailData struct {
	EmployeeName  string
	Date          string
	ScheduledTime string
	ActualTime    string
	MinutesLate   int
	Year          int
}

// SendLateArrival sends the late arrival alert for one clock-in
func (s *emailServiceImpl) SendLateArrival(ctx context.Context, payload notification.LateArrivalPayload) error {
	data := lateArrivalEmailData{
		EmployeeName:  payload.EmployeeName,
		Date:          payload.Date,
		ScheduledTime: payload.ScheduledTime,
		ActualTime:    payload.ActualTime,
		MinutesLate:   payload.MinutesLate,
		Year:          time.Now().Year(),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "late_arrival.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	to := payload.Email
	if s.cfg.NotifyTo != "" {
		to = s.cfg.NotifyTo
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Late Arrival Alert - %s", payload.EmployeeName), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Header values come from employee records and must stay on one line
	from := headerValue(s.cfg.From)
	to = headerValue(to)

	headers := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", headerValue(s.cfg.FromName)), from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := s.send(addr, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}

// headerValue drops CR and LF so a value cannot end its header line.
func headerValue(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, value)
}
