package service

import "github.com/msomdec/skillbarter/internal/domain"

// creditDeltas maps a termination type to the credit delta for each
// side of the exchange: normal sessions cost the learner one credit
// and pay the teacher one, fault terminations penalize the party at
// fault by three and compensate the counterpart by three.
var creditDeltas = map[domain.TerminationType]struct{ learner, teacher int }{
	domain.TerminationNormal:       {learner: -1, teacher: +1},
	domain.TerminationTeacherFault: {learner: +3, teacher: -3},
	domain.TerminationLearnerFault: {learner: -3, teacher: +3},
}

// CreditDelta returns the signed credit adjustment for the current
// account given how the session ended and which side it was on.
func CreditDelta(termination domain.TerminationType, isLearner bool) int {
	d, ok := creditDeltas[termination]
	if !ok {
		return 0
	}
	if isLearner {
		return d.learner
	}
	return d.teacher
}
