package brackets

import (
	"testing"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/stretchr/testify/assert"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestAgeGroup(t *testing.T) {
	now := date(2025, 6, 15)

	testCases := []struct {
		name        string
		dateOfBirth time.Time
		expected    string
	}{
		{"senior at exactly 45", date(1980, 6, 15), AgeClassSenior},
		{"adult at 44", date(1980, 6, 16), AgeClassAdult},
		{"adult at exactly 18", date(2007, 6, 15), AgeClassAdult},
		{"teen at 17", date(2007, 6, 16), AgeClassTeen},
		{"teen at exactly 16", date(2009, 6, 15), AgeClassTeen},
		{"youth at 15", date(2009, 6, 16), AgeClassYouth},
		{"birthday tomorrow still counts previous age", date(2007, 6, 16), AgeClassTeen},
		{"birthday yesterday counts new age", date(2007, 6, 14), AgeClassAdult},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AgeGroup(tc.dateOfBirth, now))
		})
	}
}

func TestCriteriaFromSkillLevel(t *testing.T) {
	novice := "Novice: 0-2 fights"
	spaced := "  Open : 10+ fights "
	plain := "Open"

	testCases := []struct {
		name       string
		skillLevel *string
		expected   string
	}{
		{"nil skill level", nil, ""},
		{"prefix before colon", &novice, "Novice"},
		{"trims whitespace", &spaced, "Open"},
		{"no colon keeps whole value", &plain, "Open"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CriteriaFromSkillLevel(tc.skillLevel))
		})
	}
}

func TestSportLabel(t *testing.T) {
	assert.Equal(t, "Kickboxing (Male)", SportLabel("Kickboxing", "Male"))
	assert.Equal(t, "Muay Thai (Female)", SportLabel("Muay Thai", "Female"))
}

func TestDivisionTitle(t *testing.T) {
	testCases := []struct {
		name            string
		gender          string
		bracketCriteria string
		weightClass     string
		expected        string
	}{
		{"full male title", "Male", "Novice", "Middleweight", "Men's Novice Middleweight"},
		{"full female title", "Female", "Open", "Flyweight", "Women's Open Flyweight"},
		{"missing weight class", "Male", "Novice", "", "Men's Novice"},
		{"missing criteria", "Female", "", "Flyweight", "Women's Flyweight"},
		{"only gender", "Male", "", "", "Men's"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DivisionTitle(tc.gender, tc.bracketCriteria, tc.weightClass))
		})
	}
}

func TestCriteriaForRegistration(t *testing.T) {
	now := date(2025, 6, 15)
	skill := "Novice: 0-2 fights"

	reg := &models.Registration{
		ID:          7,
		EventID:     3,
		Gender:      "Male",
		DateOfBirth: date(1990, 1, 1),
		SkillLevel:  &skill,
	}

	criteria := CriteriaForRegistration(reg, "Kickboxing", "Standard Single Elimination", now)

	assert.Equal(t, 3, criteria.EventID)
	assert.Equal(t, AgeClassAdult, criteria.AgeClass)
	assert.Equal(t, "Kickboxing (Male)", criteria.Sport)
	assert.Equal(t, "Standard Single Elimination", criteria.RuleStyle)
	assert.Equal(t, "Novice", criteria.BracketCriteria)
}

func TestCriteriaForRegistrationNilSkillLevel(t *testing.T) {
	reg := &models.Registration{
		EventID:     1,
		Gender:      "Female",
		DateOfBirth: date(2000, 3, 3),
	}

	criteria := CriteriaForRegistration(reg, "Boxing", "Standard Single Elimination", date(2025, 6, 15))
	assert.Equal(t, "", criteria.BracketCriteria)
	assert.Equal(t, "Boxing (Female)", criteria.Sport)
}
