package brackets

import (
	"fmt"
	"strings"
	"time"

	"github.com/ringside/fightcard/models"
)

// Age class labels assigned by AgeGroup.
const (
	AgeClassYouth  = "Youth"
	AgeClassTeen   = "Teen"
	AgeClassAdult  = "Adult"
	AgeClassSenior = "Senior"
)

// Criteria is the matching key for automatic bracket assignment: a fighter
// can only be seeded into an Open bracket whose key fields all match.
type Criteria struct {
	EventID         int
	AgeClass        string
	Sport           string // sport type composed with gender, e.g. "Kickboxing (Male)"
	RuleStyle       string
	BracketCriteria string // skill band label derived from the registration's skill level
}

// AgeGroup maps a date of birth onto a fixed age band relative to now:
// 45 and over is Senior, 18–44 Adult, 16–17 Teen, everything younger Youth.
func AgeGroup(dateOfBirth, now time.Time) string {
	age := now.Year() - dateOfBirth.Year()
	// Decrement if the birthday has not happened yet this year.
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}

	switch {
	case age >= 45:
		return AgeClassSenior
	case age >= 18:
		return AgeClassAdult
	case age >= 16:
		return AgeClassTeen
	default:
		return AgeClassYouth
	}
}

// CriteriaFromSkillLevel reduces a banded skill level such as
// "Class B: 4-6 Years (Belt Award)" to its band label "Class B".
// A missing skill level yields an empty criteria string.
func CriteriaFromSkillLevel(skillLevel *string) string {
	if skillLevel == nil {
		return ""
	}
	label, _, _ := strings.Cut(*skillLevel, ":")
	return strings.TrimSpace(label)
}

// SportLabel composes the sport type with the fighter's gender,
// e.g. ("Kickboxing", "Male") -> "Kickboxing (Male)".
func SportLabel(sportType, gender string) string {
	return fmt.Sprintf("%s (%s)", sportType, gender)
}

// DivisionTitle builds the human-readable bracket title from the fighter's
// gender, skill band and weight class. Empty segments are omitted so the
// result never contains double spaces.
func DivisionTitle(gender, bracketCriteria, weightClass string) string {
	segments := make([]string, 0, 3)

	switch gender {
	case "Male":
		segments = append(segments, "Men's")
	case "Female":
		segments = append(segments, "Women's")
	}
	if bracketCriteria != "" {
		segments = append(segments, bracketCriteria)
	}
	if weightClass != "" {
		segments = append(segments, weightClass)
	}

	return strings.Join(segments, " ")
}

// CriteriaForRegistration derives the full matching key for a fighter
// registration. The rule style comes from configuration, not from the
// registration itself: auto-assigned brackets all use the same format.
func CriteriaForRegistration(reg *models.Registration, sportType, ruleStyle string, now time.Time) Criteria {
	return Criteria{
		EventID:         reg.EventID,
		AgeClass:        AgeGroup(reg.DateOfBirth, now),
		Sport:           SportLabel(sportType, reg.Gender),
		RuleStyle:       ruleStyle,
		BracketCriteria: CriteriaFromSkillLevel(reg.SkillLevel),
	}
}
