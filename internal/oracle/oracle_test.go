package oracle

import (
	"testing"

	"github.com/msomdec/skillbarter/internal/domain"
)

func TestParseVerdict(t *testing.T) {
	payload := `{"isFocused": false, "violationType": "off_topic", "feedback": "Stay on topic.", "focusScore": 45}`

	v, err := ParseVerdict(payload)
	if err != nil {
		t.Fatalf("parsing verdict: %v", err)
	}
	if v.IsFocused || v.ViolationType != domain.ViolationOffTopic || v.Feedback != "Stay on topic." || v.FocusScore != 45 {
		t.Errorf("verdict = %+v", v)
	}
}

func TestParseVerdictDefaults(t *testing.T) {
	v, err := ParseVerdict(`{"isFocused": true}`)
	if err != nil {
		t.Fatalf("parsing verdict: %v", err)
	}
	if v.Feedback != "Monitoring focus..." {
		t.Errorf("feedback default = %q", v.Feedback)
	}
	if v.FocusScore != 100 {
		t.Errorf("focus score default = %d", v.FocusScore)
	}
	if v.ViolationType != domain.ViolationNone {
		t.Errorf("violation default = %q", v.ViolationType)
	}
}

func TestParseVerdictStripsFences(t *testing.T) {
	payload := "```json\n{\"isFocused\": false, \"violationType\": \"harassment\", \"focusScore\": 10}\n```"

	v, err := ParseVerdict(payload)
	if err != nil {
		t.Fatalf("parsing fenced verdict: %v", err)
	}
	if v.ViolationType != domain.ViolationHarassment {
		t.Errorf("violation = %q", v.ViolationType)
	}
	if v.FaultFor() != domain.TerminationTeacherFault {
		t.Errorf("harassment fault = %q, want teacher_fault", v.FaultFor())
	}
}

func TestParseVerdictRejectsGarbage(t *testing.T) {
	if _, err := ParseVerdict("I am sorry, I cannot answer that."); err == nil {
		t.Error("prose payload parsed without error")
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("```json\n[\"3\", \"1\"]\n```")
	if err != nil {
		t.Fatalf("parsing id list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "3" || ids[1] != "1" {
		t.Errorf("ids = %v, want [3 1]", ids)
	}
}

func TestParseIDListEmpty(t *testing.T) {
	ids, err := ParseIDList("[]")
	if err != nil {
		t.Fatalf("parsing empty list: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}
