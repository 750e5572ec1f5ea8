package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func newTestMatcher(bracketRepo *fakeBracketRepo, eventRepo *fakeEventRepo) *bracketMatcher {
	return &bracketMatcher{
		bracketRepo: bracketRepo,
		eventRepo:   eventRepo,
		cfg: MatcherConfig{
			DefaultMaxCompetitors: 4,
			RuleStyle:             "Standard Single Elimination",
		},
		logger: testLogger(),
		now:    func() time.Time { return testDate(2025, 6, 15) },
	}
}

func fighterRegistration(id, eventID int, email string) *models.Registration {
	skill := "Novice: 0-2 fights"
	weight := "Middleweight"
	return &models.Registration{
		ID:               id,
		EventID:          eventID,
		RegistrationType: models.RegistrationFighter,
		FirstName:        "Test",
		LastName:         "Fighter",
		Gender:           "Male",
		Email:            email,
		DateOfBirth:      testDate(1995, 1, 1),
		SkillLevel:       &skill,
		WeightClass:      &weight,
	}
}

func setupMatcherFixtures() (*fakeBracketRepo, *fakeEventRepo, *bracketMatcher, int) {
	bracketRepo := newFakeBracketRepo()
	eventRepo := newFakeEventRepo()
	event := &models.Event{Name: "Spring Showdown", SportType: "Kickboxing", StartDate: testDate(2025, 7, 1)}
	_ = eventRepo.Create(context.Background(), event)
	return bracketRepo, eventRepo, newTestMatcher(bracketRepo, eventRepo), event.ID
}

func TestPlaceFighterRejectsTrainers(t *testing.T) {
	_, _, matcher, eventID := setupMatcherFixtures()

	trainer := fighterRegistration(1, eventID, "coach@example.com")
	trainer.RegistrationType = models.RegistrationTrainer

	_, _, err := matcher.PlaceFighter(context.Background(), trainer)
	assert.ErrorIs(t, err, ErrMatcherNotAFighter)
}

func TestPlaceFighterUnknownEvent(t *testing.T) {
	_, _, matcher, _ := setupMatcherFixtures()

	reg := fighterRegistration(1, 999, "a@example.com")
	_, _, err := matcher.PlaceFighter(context.Background(), reg)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPlaceFighterCreatesBracketWhenNoneOpen(t *testing.T) {
	_, _, matcher, eventID := setupMatcherFixtures()

	reg := fighterRegistration(1, eventID, "a@example.com")
	bracket, seed, err := matcher.PlaceFighter(context.Background(), reg)
	require.NoError(t, err)

	assert.Equal(t, 1, seed)
	assert.Equal(t, 1, bracket.BracketNumber)
	assert.Equal(t, models.BracketOpen, bracket.Status)
	assert.Equal(t, 4, bracket.MaxCompetitors)
	assert.Equal(t, "Men's Novice Middleweight", bracket.DivisionTitle)
	assert.Equal(t, "Adult", bracket.AgeClass)
	assert.Equal(t, "Kickboxing (Male)", bracket.Sport)
	assert.Equal(t, "Standard Single Elimination", bracket.RuleStyle)
	assert.Equal(t, "Novice", bracket.BracketCriteria)
}

func TestPlaceFighterSeedsAreContiguous(t *testing.T) {
	bracketRepo, _, matcher, eventID := setupMatcherFixtures()

	for i := 1; i <= 4; i++ {
		reg := fighterRegistration(i, eventID, fmt.Sprintf("f%d@example.com", i))
		bracket, seed, err := matcher.PlaceFighter(context.Background(), reg)
		require.NoError(t, err)
		assert.Equal(t, i, seed)
		assert.Equal(t, 1, bracket.ID, "all four should land in the same bracket")
	}

	seeds, err := bracketRepo.ListSeeds(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, seeds, 4)
	for i, seed := range seeds {
		assert.Equal(t, i+1, seed.Seed)
	}
}

func TestPlaceFighterNeverExceedsCapacity(t *testing.T) {
	bracketRepo, _, matcher, eventID := setupMatcherFixtures()

	for i := 1; i <= 5; i++ {
		reg := fighterRegistration(i, eventID, fmt.Sprintf("f%d@example.com", i))
		_, _, err := matcher.PlaceFighter(context.Background(), reg)
		require.NoError(t, err)
	}

	// The fifth fighter must open bracket #2, not squeeze into #1.
	first, err := bracketRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, first.FighterCount)

	second, err := bracketRepo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, second.FighterCount)
	assert.Equal(t, 2, second.BracketNumber)
}

func TestPlaceFighterPrefersFullestCandidate(t *testing.T) {
	bracketRepo, _, matcher, eventID := setupMatcherFixtures()
	ctx := context.Background()

	// Two compatible open brackets: #1 with three fighters, #2 with one.
	for i := 1; i <= 4; i++ {
		reg := fighterRegistration(i, eventID, fmt.Sprintf("f%d@example.com", i))
		_, _, err := matcher.PlaceFighter(ctx, reg)
		require.NoError(t, err)
	}
	for i := 5; i <= 6; i++ {
		reg := fighterRegistration(i, eventID, fmt.Sprintf("f%d@example.com", i))
		_, _, err := matcher.PlaceFighter(ctx, reg)
		require.NoError(t, err)
	}
	// Free a slot in bracket #1 so both have room.
	bracketRepo.seeds[1] = bracketRepo.seeds[1][:3]

	reg := fighterRegistration(7, eventID, "f7@example.com")
	bracket, seed, err := matcher.PlaceFighter(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, 1, bracket.ID)
	assert.Equal(t, 4, seed)
}

func TestPlaceFighterSkipsNonMatchingBrackets(t *testing.T) {
	_, _, matcher, eventID := setupMatcherFixtures()
	ctx := context.Background()

	male := fighterRegistration(1, eventID, "m@example.com")
	maleBracket, _, err := matcher.PlaceFighter(ctx, male)
	require.NoError(t, err)

	female := fighterRegistration(2, eventID, "f@example.com")
	female.Gender = "Female"
	femaleBracket, _, err := matcher.PlaceFighter(ctx, female)
	require.NoError(t, err)

	assert.NotEqual(t, maleBracket.ID, femaleBracket.ID)
	assert.Equal(t, "Women's Novice Middleweight", femaleBracket.DivisionTitle)
}

func TestPlaceFighterAlreadySeededIsIdempotent(t *testing.T) {
	_, _, matcher, eventID := setupMatcherFixtures()
	ctx := context.Background()

	reg := fighterRegistration(1, eventID, "a@example.com")
	first, seed, err := matcher.PlaceFighter(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, 1, seed)

	// A retry of the same registration is a no-op, not an error.
	again, seed, err := matcher.PlaceFighter(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 0, seed)
}

func TestPlaceFighterSkipsClosedBrackets(t *testing.T) {
	bracketRepo, _, matcher, eventID := setupMatcherFixtures()
	ctx := context.Background()

	reg := fighterRegistration(1, eventID, "a@example.com")
	bracket, _, err := matcher.PlaceFighter(ctx, reg)
	require.NoError(t, err)

	bracketRepo.brackets[bracket.ID].Status = models.BracketStarted

	next := fighterRegistration(2, eventID, "b@example.com")
	created, seed, err := matcher.PlaceFighter(ctx, next)
	require.NoError(t, err)
	assert.NotEqual(t, bracket.ID, created.ID)
	assert.Equal(t, 1, seed)
}
