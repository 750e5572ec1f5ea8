package services

import (
	"context"
	"testing"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boutServiceFixture struct {
	bracketRepo *fakeBracketRepo
	boutRepo    *fakeBoutRepo
	fightRepo   *fakeFightRepo
	service     BoutService
	bracketID   int
}

func newBoutServiceFixture(t *testing.T) *boutServiceFixture {
	t.Helper()
	f := &boutServiceFixture{
		bracketRepo: newFakeBracketRepo(),
		boutRepo:    newFakeBoutRepo(),
		fightRepo:   newFakeFightRepo(),
	}
	f.service = NewBoutService(fakeTxManager{}, f.boutRepo, f.bracketRepo, f.fightRepo)

	ctx := context.Background()
	bracket := &models.Bracket{
		EventID:        1,
		BracketNumber:  1,
		DivisionTitle:  "Men's Novice Middleweight",
		MaxCompetitors: 4,
		Status:         models.BracketOpen,
	}
	require.NoError(t, f.bracketRepo.Create(ctx, nil, bracket))
	f.bracketID = bracket.ID

	for _, regID := range []int{11, 12, 13} {
		_, err := f.bracketRepo.AssignSeed(ctx, bracket.ID, regID)
		require.NoError(t, err)
	}
	return f
}

func TestBoutCreateRequiresDistinctSeededCorners(t *testing.T) {
	f := newBoutServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11})
	assert.ErrorIs(t, err, ErrBoutCornersRequired)

	_, err = f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 11})
	assert.ErrorIs(t, err, ErrBoutSameCorner)

	// Fighter 99 is not on this bracket's roster.
	_, err = f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 99})
	assert.ErrorIs(t, err, ErrBoutCornerNotInBracket)

	bout, err := f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 12})
	require.NoError(t, err)
	assert.Equal(t, 1, bout.BoutNumber)
}

func TestBoutCreateDuplicateNumber(t *testing.T) {
	f := newBoutServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 12})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 13})
	assert.ErrorIs(t, err, ErrBoutNumberConflict)
}

func TestBoutGenerateOpeningRound(t *testing.T) {
	f := newBoutServiceFixture(t)
	ctx := context.Background()

	// Roster is seeds 11, 12, 13: top faces bottom, middle sits out.
	bouts, err := f.service.Generate(ctx, f.bracketID)
	require.NoError(t, err)
	require.Len(t, bouts, 1)
	assert.Equal(t, 11, bouts[0].RedCornerID)
	assert.Equal(t, 13, bouts[0].BlueCornerID)
	assert.Equal(t, 1, bouts[0].BoutNumber)

	_, err = f.service.Generate(ctx, f.bracketID)
	assert.ErrorIs(t, err, ErrBracketAlreadyPaired)
}

func TestBoutGenerateNeedsTwoFighters(t *testing.T) {
	f := newBoutServiceFixture(t)
	ctx := context.Background()

	f.bracketRepo.seeds[f.bracketID] = f.bracketRepo.seeds[f.bracketID][:1]
	_, err := f.service.Generate(ctx, f.bracketID)
	assert.ErrorIs(t, err, ErrBracketNotEnoughFighters)
}

func TestBoutDeleteRemovesFightFirst(t *testing.T) {
	f := newBoutServiceFixture(t)
	ctx := context.Background()

	bout, err := f.service.Create(ctx, CreateBoutInput{BracketID: f.bracketID, BoutNumber: 1, RedCornerID: 11, BlueCornerID: 12})
	require.NoError(t, err)

	fight := &models.Fight{EventID: 1, BracketID: f.bracketID, BoutID: bout.ID, Status: models.FightCompleted}
	require.NoError(t, f.fightRepo.Create(ctx, nil, fight))
	require.NoError(t, f.boutRepo.SetFightID(ctx, nil, bout.ID, &fight.ID))

	require.NoError(t, f.service.Delete(ctx, bout.ID))

	_, err = f.boutRepo.GetByID(ctx, bout.ID)
	assert.ErrorIs(t, err, repositories.ErrBoutNotFound)
	assert.Empty(t, f.fightRepo.fights)
}
