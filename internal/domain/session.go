package domain

// TerminationType classifies how a live session ended.
type TerminationType string

const (
	TerminationNormal       TerminationType = "normal"
	TerminationTeacherFault TerminationType = "teacher_fault"
	TerminationLearnerFault TerminationType = "learner_fault"
)

// Violation types the oracle may attribute to an unfocused verdict.
const (
	ViolationNone       = "none"
	ViolationOffTopic   = "off_topic"
	ViolationHarassment = "harassment"
	ViolationInactivity = "inactivity"
)

// MaxSessionAlerts is the infraction count at which a session is
// terminated by moderation.
const MaxSessionAlerts = 3

// SessionStatus exists only while a match is active. AlertCount never
// decreases, and IsTerminated flips false→true at most once, with
// TerminationReason set in the same step.
type SessionStatus struct {
	IsLearning        bool
	AlertCount        int
	IsTerminated      bool
	TerminationReason TerminationType
	LastFeedback      string
	FocusScore        int
}

// FocusVerdict is the oracle's periodic judgement of session quality.
type FocusVerdict struct {
	IsFocused     bool   `json:"isFocused"`
	ViolationType string `json:"violationType"`
	Feedback      string `json:"feedback"`
	FocusScore    int    `json:"focusScore"`
}

// FaultFor maps a verdict's violation to the party at fault when the
// alert limit is reached: harassment is attributed to the teacher,
// everything else to the learner.
func (v FocusVerdict) FaultFor() TerminationType {
	if v.ViolationType == ViolationHarassment {
		return TerminationTeacherFault
	}
	return TerminationLearnerFault
}
