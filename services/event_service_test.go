package services

import (
	"context"
	"testing"

	"github.com/ringside/fightcard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDeleteCascades(t *testing.T) {
	ctx := context.Background()

	eventRepo := newFakeEventRepo()
	settingsRepo := newFakeSettingsRepo()
	bracketRepo := newFakeBracketRepo()
	boutRepo := newFakeBoutRepo()
	fightRepo := newFakeFightRepo()
	service := NewEventService(
		fakeTxManager{}, eventRepo, settingsRepo, bracketRepo, boutRepo, fightRepo, testLogger())

	event := &models.Event{Name: "Spring Showdown", SportType: "Kickboxing", StartDate: testDate(2025, 7, 1)}
	require.NoError(t, eventRepo.Create(ctx, event))
	require.NoError(t, settingsRepo.Upsert(ctx, &models.TournamentSettings{EventID: event.ID, MaxFightersPerBracket: 4}))

	bracket := &models.Bracket{
		EventID:        event.ID,
		BracketNumber:  1,
		DivisionTitle:  "Men's Novice Middleweight",
		MaxCompetitors: 4,
		Status:         models.BracketOpen,
	}
	require.NoError(t, bracketRepo.Create(ctx, nil, bracket))
	_, err := bracketRepo.AssignSeed(ctx, bracket.ID, 11)
	require.NoError(t, err)

	bout := &models.Bout{BracketID: bracket.ID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 12}
	require.NoError(t, boutRepo.Create(ctx, nil, bout))
	fight := &models.Fight{EventID: event.ID, BracketID: bracket.ID, BoutID: bout.ID, Status: models.FightCompleted}
	require.NoError(t, fightRepo.Create(ctx, nil, fight))

	require.NoError(t, service.Delete(ctx, event.ID))

	assert.Empty(t, eventRepo.events)
	assert.Empty(t, settingsRepo.settings)
	assert.Empty(t, bracketRepo.brackets)
	assert.Empty(t, boutRepo.bouts)
	assert.Empty(t, fightRepo.fights)
}

func TestEventUpsertSettingsValidation(t *testing.T) {
	ctx := context.Background()

	eventRepo := newFakeEventRepo()
	settingsRepo := newFakeSettingsRepo()
	service := NewEventService(
		fakeTxManager{}, eventRepo, settingsRepo, newFakeBracketRepo(), newFakeBoutRepo(), newFakeFightRepo(), testLogger())

	event := &models.Event{Name: "Spring Showdown", SportType: "Kickboxing", StartDate: testDate(2025, 7, 1)}
	require.NoError(t, eventRepo.Create(ctx, event))

	_, err := service.UpsertSettings(ctx, event.ID, UpsertSettingsInput{MaxFightersPerBracket: 1})
	assert.ErrorIs(t, err, ErrBracketInvalidCapacity)

	_, err = service.UpsertSettings(ctx, 999, UpsertSettingsInput{MaxFightersPerBracket: 4})
	assert.ErrorIs(t, err, ErrEventNotFound)

	settings, err := service.UpsertSettings(ctx, event.ID, UpsertSettingsInput{
		MaxFightersPerBracket: 8,
		FighterFee:            50,
		Currency:              "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, settings.MaxFightersPerBracket)

	loaded, err := service.GetSettings(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", loaded.Currency)
}
