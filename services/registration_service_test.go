package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ringside/fightcard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationServiceFixture struct {
	registrationRepo *fakeRegistrationRepo
	eventRepo        *fakeEventRepo
	placements       *fakePlacementQueue
	email            *fakeEmailService
	service          RegistrationService
	eventID          int
}

func newRegistrationServiceFixture(t *testing.T) *registrationServiceFixture {
	t.Helper()
	f := &registrationServiceFixture{
		registrationRepo: newFakeRegistrationRepo(),
		eventRepo:        newFakeEventRepo(),
		placements:       &fakePlacementQueue{},
		email:            &fakeEmailService{},
	}
	f.service = NewRegistrationService(
		f.registrationRepo, f.eventRepo, f.placements, f.email, nil, testLogger())

	event := &models.Event{Name: "Spring Showdown", SportType: "Kickboxing", StartDate: testDate(2025, 7, 1)}
	require.NoError(t, f.eventRepo.Create(context.Background(), event))
	f.eventID = event.ID
	return f
}

func validRegistrationInput(eventID int, email string) CreateRegistrationInput {
	return CreateRegistrationInput{
		EventID:          eventID,
		RegistrationType: models.RegistrationFighter,
		FirstName:        "Jo",
		LastName:         "Doe",
		Gender:           "Male",
		Email:            email,
		DateOfBirth:      testDate(1995, 1, 1),
	}
}

func TestRegistrationCreateValidation(t *testing.T) {
	f := newRegistrationServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRegistrationInput{EventID: f.eventID})
	assert.ErrorIs(t, err, ErrRegistrationFieldsMissing)

	input := validRegistrationInput(f.eventID, "a@example.com")
	input.RegistrationType = "spectator"
	_, err = f.service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrRegistrationInvalidType)

	_, err = f.service.Create(ctx, validRegistrationInput(999, "a@example.com"))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegistrationCreateDuplicateEmail(t *testing.T) {
	f := newRegistrationServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, validRegistrationInput(f.eventID, "a@example.com"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, validRegistrationInput(f.eventID, "a@example.com"))
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegistrationCreateEnqueuesFightersOnly(t *testing.T) {
	f := newRegistrationServiceFixture(t)
	ctx := context.Background()

	fighter, err := f.service.Create(ctx, validRegistrationInput(f.eventID, "fighter@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, fighter.Status)

	trainerInput := validRegistrationInput(f.eventID, "trainer@example.com")
	trainerInput.RegistrationType = models.RegistrationTrainer
	_, err = f.service.Create(ctx, trainerInput)
	require.NoError(t, err)

	require.Len(t, f.placements.enqueued, 1)
	assert.Equal(t, fighter.ID, f.placements.enqueued[0].ID)
}

func TestRegistrationCreateSurvivesEmailFailure(t *testing.T) {
	f := newRegistrationServiceFixture(t)
	f.email.err = errors.New("smtp unreachable")

	reg, err := f.service.Create(context.Background(), validRegistrationInput(f.eventID, "a@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, reg.ID)
}

func TestRegistrationUpdateStatus(t *testing.T) {
	f := newRegistrationServiceFixture(t)
	ctx := context.Background()

	reg, err := f.service.Create(ctx, validRegistrationInput(f.eventID, "a@example.com"))
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, reg.ID, "Unknown")
	assert.ErrorIs(t, err, ErrRegistrationInvalidStatus)

	updated, err := f.service.UpdateStatus(ctx, reg.ID, models.RegistrationVerified)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationVerified, updated.Status)
}
