package domain

import "testing"

func TestIsStandardSkill(t *testing.T) {
	if !IsStandardSkill("Python Programming") {
		t.Error("curated skill not recognized")
	}
	// The comparison is exact: a different casing is a custom skill.
	if IsStandardSkill("python programming") {
		t.Error("case variant treated as standard")
	}
	if IsStandardSkill("Quantum Basket-Weaving") {
		t.Error("custom skill treated as standard")
	}
}

func TestSkillChecksFoldCase(t *testing.T) {
	a := &Account{
		SkillsToTeach: []string{"Data Science"},
		SkillsToLearn: []string{"Public Speaking"},
	}

	if !a.Teaches("data science") {
		t.Error("Teaches should fold case")
	}
	if !a.WantsToLearn("PUBLIC SPEAKING") {
		t.Error("WantsToLearn should fold case")
	}
	if a.Teaches("Public Speaking") {
		t.Error("learn list leaked into Teaches")
	}
}
