package domain

import "strings"

// StandardSkills is the curated vocabulary the skill pickers offer by
// default. Anything outside this list is a custom skill and routes
// matching through the advisory oracle.
var StandardSkills = []string{
	"React Development",
	"Python Programming",
	"Video Editing (Premiere Pro)",
	"Graphic Design (Figma)",
	"Digital Marketing",
	"SQL & Databases",
	"Public Speaking",
	"Content Writing",
	"Data Science",
	"Mobile App Development",
}

// IsStandardSkill reports whether the skill is part of the curated
// vocabulary. Comparison is exact: custom skills keep their free-form
// spelling.
func IsStandardSkill(skill string) bool {
	for _, s := range StandardSkills {
		if s == skill {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
