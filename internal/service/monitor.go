package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/oracle"
)

// Monitoring cadence defaults. Both are injectable so tests can run at
// millisecond scale.
const (
	DefaultPollInterval = 20 * time.Second
	DefaultGraceDelay   = 3 * time.Second
)

// MonitorConfig tunes the session monitor's timers.
type MonitorConfig struct {
	PollInterval time.Duration
	GraceDelay   time.Duration
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = DefaultGraceDelay
	}
	return c
}

// SessionMonitor proctors one live session: it polls the advisory
// oracle on a fixed cadence, accumulates infractions, and fires the
// termination callback once the alert limit is reached.
//
// Polls are serialized: the loop issues the next poll only after the
// previous one returns. Polling stops permanently the moment the
// session terminates or the monitor is stopped, and a failed poll
// changes nothing.
type SessionMonitor struct {
	advisor oracle.Advisor
	topic   string
	cfg     MonitorConfig

	// onTerminated is invoked once, after the grace delay, when the
	// alert limit ends the session.
	onTerminated func(reason domain.TerminationType)

	mu         sync.Mutex
	status     domain.SessionStatus
	startedAt  time.Time
	stopped    bool
	cancel     context.CancelFunc
	graceTimer *time.Timer
}

// NewSessionMonitor creates a monitor for a session on the given topic.
func NewSessionMonitor(advisor oracle.Advisor, topic string, cfg MonitorConfig, onTerminated func(domain.TerminationType)) *SessionMonitor {
	return &SessionMonitor{
		advisor:      advisor,
		topic:        topic,
		cfg:          cfg.withDefaults(),
		onTerminated: onTerminated,
		status:       domain.SessionStatus{IsLearning: true, FocusScore: 100},
	}
}

// Start launches the poll loop. It returns immediately.
func (m *SessionMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil || m.stopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.startedAt = time.Now()

	go m.loop(ctx)
}

func (m *SessionMonitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.terminatedOrStopped() {
				return
			}
			m.poll(ctx)
		}
	}
}

func (m *SessionMonitor) poll(ctx context.Context) {
	verdict, err := m.advisor.FocusVerdict(ctx, m.topic)
	if err != nil {
		// Fail soft: the session continues un-penalized for this interval.
		slog.Debug("focus poll failed", "topic", m.topic, "error", err)
		return
	}
	m.ApplyVerdict(verdict)
}

// ApplyVerdict folds one oracle verdict into the session status. It is
// a no-op once the session is terminated or the monitor stopped.
func (m *SessionMonitor) ApplyVerdict(v domain.FocusVerdict) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.IsTerminated || m.stopped {
		return
	}

	m.status.LastFeedback = v.Feedback
	m.status.FocusScore = v.FocusScore

	if v.IsFocused {
		m.status.IsLearning = true
		return
	}

	m.status.IsLearning = false
	m.status.AlertCount++

	if m.status.AlertCount >= domain.MaxSessionAlerts {
		reason := v.FaultFor()
		m.status.IsTerminated = true
		m.status.TerminationReason = reason
		m.graceTimer = time.AfterFunc(m.cfg.GraceDelay, func() {
			m.fireTermination(reason)
		})
	}
}

func (m *SessionMonitor) fireTermination(reason domain.TerminationType) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()

	if m.onTerminated != nil {
		m.onTerminated(reason)
	}
}

// Stop cancels the poll loop and any pending grace timer. No state
// mutation and no callback can occur afterwards.
func (m *SessionMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.cancel != nil {
		m.cancel()
	}
	if m.graceTimer != nil {
		m.graceTimer.Stop()
	}
}

// Status returns a copy of the current session status.
func (m *SessionMonitor) Status() domain.SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Elapsed returns how long the session has been running.
func (m *SessionMonitor) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startedAt.IsZero() {
		return 0
	}
	return time.Since(m.startedAt)
}

func (m *SessionMonitor) terminatedOrStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.IsTerminated || m.stopped
}
