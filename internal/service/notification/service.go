package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds notification dispatcher configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 1000
	MaxAttempts int           // default: 3
	BackoffBase time.Duration // default: 5 seconds, doubled after every failed attempt
	SendTimeout time.Duration // default: 30 seconds
	MaxRetained int           // default: 1000 failed jobs kept for inspection
}

type job struct {
	id         string
	kind       notification.JobKind
	payload    notification.LateArrivalPayload
	attempts   int
	lastErr    error
	enqueuedAt time.Time
}

type service struct {
	sender notification.Sender
	config Config

	queue   chan *job
	wg      sync.WaitGroup
	stopCh  chan struct{}
	stopped bool
	mu      sync.Mutex

	retries sync.WaitGroup
	failed  []notification.FailedJobResponse
}

// Dispatcher is the notification service plus its lifecycle.
type Dispatcher interface {
	notification.Service
	Stop()
}

// NewNotificationService creates a dispatcher and starts its background workers
func NewNotificationService(sender notification.Sender, cfg Config) Dispatcher {
	// Set defaults
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = 5 * time.Second
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.MaxRetained == 0 {
		cfg.MaxRetained = 1000
	}

	s := &service{
		sender: sender,
		config: cfg,
		queue:  make(chan *job, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification dispatcher started",
		"workers", cfg.WorkerCount,
		"queue_size", cfg.QueueSize,
		"max_attempts", cfg.MaxAttempts,
		"backoff_base", cfg.BackoffBase,
	)

	return s
}

// EnqueueLateArrival implements notification.Service.
func (s *service) EnqueueLateArrival(ctx context.Context, payload notification.LateArrivalPayload) error {
	j := &job{
		id:         uuid.New().String(),
		kind:       notification.KindLateArrival,
		payload:    payload,
		enqueuedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return notification.ErrDispatcherStopped
	}

	select {
	case s.queue <- j:
		slog.Info("Late arrival notification queued", "job_id", j.id, "employee_id", payload.EmployeeID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return notification.ErrQueueFull
	}
}

// Failed implements notification.Service.
func (s *service) Failed() []notification.FailedJobResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]notification.FailedJobResponse, len(s.failed))
	copy(out, s.failed)
	return out
}

// Stop stops accepting jobs, lets workers drain the queue and waits for them.
// Retries still waiting for their backoff are retained as failed.
func (s *service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.retries.Wait()

	// A retry may have been re-queued after the workers exited
	for {
		select {
		case j := <-s.queue:
			j.lastErr = errors.Join(j.lastErr, notification.ErrDispatcherStopped)
			s.retain(j)
		default:
			slog.Info("Notification dispatcher stopped")
			return
		}
	}
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case j := <-s.queue:
			s.process(id, j)
		case <-s.stopCh:
			// Drain what is already queued, then exit
			for {
				select {
				case j := <-s.queue:
					s.process(id, j)
				default:
					return
				}
			}
		}
	}
}

func (s *service) process(workerID int, j *job) {
	j.attempts++

	ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
	err := s.sender.SendLateArrival(ctx, j.payload)
	cancel()

	if err == nil {
		slog.Info("Late arrival notification delivered",
			"worker", workerID,
			"job_id", j.id,
			"attempt", j.attempts,
		)
		return
	}

	j.lastErr = err
	slog.Error("Late arrival notification attempt failed",
		"worker", workerID,
		"job_id", j.id,
		"attempt", j.attempts,
		"max_attempts", s.config.MaxAttempts,
		"error", err,
	)

	if j.attempts >= s.config.MaxAttempts {
		s.retain(j)
		return
	}

	s.scheduleRetry(j, s.Backoff(j.attempts))
}

// Backoff returns the wait before the retry that follows the given failed attempt.
func (s *service) Backoff(attempt int) time.Duration {
	return s.config.BackoffBase * time.Duration(1<<(attempt-1))
}

func (s *service) scheduleRetry(j *job, delay time.Duration) {
	s.retries.Add(1)
	go func() {
		defer s.retries.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-s.stopCh:
			j.lastErr = errors.Join(j.lastErr, notification.ErrDispatcherStopped)
			s.retain(j)
			return
		}

		select {
		case s.queue <- j:
		case <-s.stopCh:
			j.lastErr = errors.Join(j.lastErr, notification.ErrDispatcherStopped)
			s.retain(j)
		}
	}()
}

func (s *service) retain(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = append(s.failed, notification.FailedJobResponse{
		ID:         j.id,
		Kind:       j.kind,
		Payload:    j.payload,
		Attempts:   j.attempts,
		LastError:  fmt.Sprint(j.lastErr),
		EnqueuedAt: j.enqueuedAt,
		FailedAt:   time.Now().UTC(),
	})
	if over := len(s.failed) - s.config.MaxRetained; over > 0 {
		s.failed = s.failed[over:]
	}

	slog.Error("Late arrival notification retained after failure",
		"job_id", j.id,
		"attempts", j.attempts,
		"error", j.lastErr,
	)
}
