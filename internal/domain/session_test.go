package domain

import "testing"

func TestFaultFor(t *testing.T) {
	tests := []struct {
		violation string
		want      TerminationType
	}{
		{ViolationHarassment, TerminationTeacherFault},
		{ViolationOffTopic, TerminationLearnerFault},
		{ViolationInactivity, TerminationLearnerFault},
		{ViolationNone, TerminationLearnerFault},
	}

	for _, tt := range tests {
		v := FocusVerdict{ViolationType: tt.violation}
		if got := v.FaultFor(); got != tt.want {
			t.Errorf("FaultFor(%q) = %q, want %q", tt.violation, got, tt.want)
		}
	}
}
