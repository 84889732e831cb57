package service

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msomdec/skillbarter/internal/domain"
)

func unfocusedVerdict(violation string) domain.FocusVerdict {
	return domain.FocusVerdict{
		IsFocused:     false,
		ViolationType: violation,
		Feedback:      "Please return to the session topic.",
		FocusScore:    40,
	}
}

func TestMonitorAccumulatesAlertsUntilTermination(t *testing.T) {
	m := NewSessionMonitor(&fakeAdvisor{}, "Python Programming", MonitorConfig{GraceDelay: time.Hour}, nil)

	for i := 1; i <= domain.MaxSessionAlerts; i++ {
		m.ApplyVerdict(unfocusedVerdict(domain.ViolationOffTopic))
		status := m.Status()
		if status.AlertCount != i {
			t.Fatalf("after verdict %d: alert count = %d", i, status.AlertCount)
		}
		wantTerminated := i == domain.MaxSessionAlerts
		if status.IsTerminated != wantTerminated {
			t.Fatalf("after verdict %d: terminated = %v, want %v", i, status.IsTerminated, wantTerminated)
		}
	}

	if got := m.Status().TerminationReason; got != domain.TerminationLearnerFault {
		t.Errorf("off-topic termination reason = %q, want learner_fault", got)
	}
	m.Stop()
}

func TestMonitorHarassmentFaultsTeacher(t *testing.T) {
	m := NewSessionMonitor(&fakeAdvisor{}, "Public Speaking", MonitorConfig{GraceDelay: time.Hour}, nil)

	for i := 0; i < domain.MaxSessionAlerts; i++ {
		m.ApplyVerdict(unfocusedVerdict(domain.ViolationHarassment))
	}

	if got := m.Status().TerminationReason; got != domain.TerminationTeacherFault {
		t.Errorf("harassment termination reason = %q, want teacher_fault", got)
	}
	m.Stop()
}

func TestMonitorFocusedVerdictDoesNotResetAlerts(t *testing.T) {
	m := NewSessionMonitor(&fakeAdvisor{}, "Data Science", MonitorConfig{GraceDelay: time.Hour}, nil)

	m.ApplyVerdict(unfocusedVerdict(domain.ViolationOffTopic))
	m.ApplyVerdict(domain.FocusVerdict{IsFocused: true, Feedback: "Back on track!", FocusScore: 95})

	status := m.Status()
	if !status.IsLearning {
		t.Error("focused verdict should restore the learning flag")
	}
	if status.AlertCount != 1 {
		t.Errorf("alert count = %d, want 1 (alerts never decrease)", status.AlertCount)
	}
	if status.LastFeedback != "Back on track!" {
		t.Errorf("feedback = %q", status.LastFeedback)
	}
	m.Stop()
}

func TestMonitorIgnoresVerdictsAfterTermination(t *testing.T) {
	m := NewSessionMonitor(&fakeAdvisor{}, "Branding", MonitorConfig{GraceDelay: time.Hour}, nil)

	for i := 0; i < domain.MaxSessionAlerts; i++ {
		m.ApplyVerdict(unfocusedVerdict(domain.ViolationInactivity))
	}
	m.ApplyVerdict(unfocusedVerdict(domain.ViolationHarassment))

	status := m.Status()
	if status.AlertCount != domain.MaxSessionAlerts {
		t.Errorf("alert count = %d, want frozen at %d", status.AlertCount, domain.MaxSessionAlerts)
	}
	if status.TerminationReason != domain.TerminationLearnerFault {
		t.Errorf("termination reason changed after the fact: %q", status.TerminationReason)
	}
	m.Stop()
}

func TestMonitorFiresCallbackOnceAfterGrace(t *testing.T) {
	var fired atomic.Int32
	done := make(chan domain.TerminationType, 1)

	m := NewSessionMonitor(&fakeAdvisor{}, "Cinematography", MonitorConfig{GraceDelay: 10 * time.Millisecond}, func(reason domain.TerminationType) {
		fired.Add(1)
		done <- reason
	})

	for i := 0; i < domain.MaxSessionAlerts; i++ {
		m.ApplyVerdict(unfocusedVerdict(domain.ViolationOffTopic))
	}

	select {
	case reason := <-done:
		if reason != domain.TerminationLearnerFault {
			t.Errorf("callback reason = %q, want learner_fault", reason)
		}
	case <-time.After(time.Second):
		t.Fatal("termination callback never fired")
	}

	// Further verdicts cannot re-arm the timer.
	m.ApplyVerdict(unfocusedVerdict(domain.ViolationOffTopic))
	time.Sleep(50 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Errorf("callback fired %d times, want exactly once", n)
	}
}

func TestMonitorStopCancelsPendingTermination(t *testing.T) {
	var fired atomic.Int32
	m := NewSessionMonitor(&fakeAdvisor{}, "Content Writing", MonitorConfig{GraceDelay: 20 * time.Millisecond}, func(domain.TerminationType) {
		fired.Add(1)
	})

	for i := 0; i < domain.MaxSessionAlerts; i++ {
		m.ApplyVerdict(unfocusedVerdict(domain.ViolationOffTopic))
	}
	// The user exits during the grace window.
	m.Stop()

	time.Sleep(60 * time.Millisecond)
	if n := fired.Load(); n != 0 {
		t.Errorf("callback fired %d times after Stop, want 0", n)
	}
}

func TestMonitorPollSurvivesOracleFailure(t *testing.T) {
	advisor := &fakeAdvisor{
		verdictFn: func() (domain.FocusVerdict, error) {
			return domain.FocusVerdict{}, errors.New("model overloaded")
		},
	}

	m := NewSessionMonitor(advisor, "SQL & Databases", MonitorConfig{PollInterval: 5 * time.Millisecond}, nil)
	m.Start()
	defer m.Stop()

	time.Sleep(40 * time.Millisecond)

	status := m.Status()
	if status.AlertCount != 0 || status.IsTerminated || !status.IsLearning {
		t.Errorf("failed polls mutated status: %+v", status)
	}
}

func TestMonitorPollAppliesVerdicts(t *testing.T) {
	var polls atomic.Int32
	advisor := &fakeAdvisor{
		verdictFn: func() (domain.FocusVerdict, error) {
			polls.Add(1)
			return unfocusedVerdict(domain.ViolationOffTopic), nil
		},
	}

	m := NewSessionMonitor(advisor, "UI/UX Design", MonitorConfig{PollInterval: 5 * time.Millisecond, GraceDelay: time.Hour}, nil)
	m.Start()
	defer m.Stop()

	deadline := time.After(time.Second)
	for m.Status().AlertCount < domain.MaxSessionAlerts {
		select {
		case <-deadline:
			t.Fatalf("alert count stuck at %d after %d polls", m.Status().AlertCount, polls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	if !m.Status().IsTerminated {
		t.Error("session should be terminated at the alert limit")
	}
}
