package scheduler

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/widget"
)

// Target is a widget the scheduler keeps fresh.
type Target interface {
	Query() string
	Submit(ctx context.Context) widget.State
}

// Sessions enumerates the live visitor sessions.
type Sessions interface {
	Each(fn func(s *session.Session))
}

// Scheduler periodically re-submits the current query of every live session.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  Sessions
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 leaves it disabled.
func New(sessions Sessions, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("INFO: scheduler: auto refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("INFO: scheduler: refreshing current searches every %s", s.interval)
	return nil
}

func (s *Scheduler) refreshAll() {
	s.sessions.Each(func(sess *session.Session) {
		s.refresh(sess.ID, sess.Widget)
	})
}

// refresh re-runs the current search unless the input is blank; a blank
// input would only replace the shown result with a validation message.
func (s *Scheduler) refresh(id string, t Target) {
	q := t.Query()
	if strings.TrimSpace(q) == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	st := t.Submit(ctx)
	if st.Error != "" {
		log.Printf("ERROR: scheduler: refresh failed for session %s query %q: %s", id, q, st.Error)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
