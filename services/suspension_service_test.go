package services

import (
	"context"
	"testing"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSuspensionFixture(t *testing.T) (*fakeSuspensionRepo, *fakeRegistrationRepo, *suspensionService) {
	t.Helper()
	suspensionRepo := newFakeSuspensionRepo()
	registrationRepo := newFakeRegistrationRepo()
	service := &suspensionService{
		suspensionRepo:   suspensionRepo,
		registrationRepo: registrationRepo,
		logger:           testLogger(),
		now:              func() time.Time { return testDate(2025, 6, 15) },
	}

	reg := &models.Registration{
		EventID:          1,
		RegistrationType: models.RegistrationFighter,
		FirstName:        "Jo",
		LastName:         "Doe",
		Email:            "a@example.com",
		DateOfBirth:      testDate(1995, 1, 1),
	}
	require.NoError(t, registrationRepo.Create(context.Background(), reg))
	return suspensionRepo, registrationRepo, service
}

func TestSuspensionCreateRequiresEndDateUnlessIndefinite(t *testing.T) {
	_, _, service := newSuspensionFixture(t)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateSuspensionInput{RegistrationID: 1, Reason: "failed medical"})
	assert.ErrorIs(t, err, ErrSuspensionEndRequired)

	indefinite, err := service.Create(ctx, CreateSuspensionInput{
		RegistrationID: 1,
		Reason:         "failed medical",
		Indefinite:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SuspensionActive, indefinite.Status)
	assert.Equal(t, testDate(2025, 6, 15), indefinite.StartDate)
}

func TestSuspensionExpireDueSweep(t *testing.T) {
	suspensionRepo, _, service := newSuspensionFixture(t)
	ctx := context.Background()

	past := testDate(2025, 6, 1)
	future := testDate(2025, 12, 1)

	expired, err := service.Create(ctx, CreateSuspensionInput{RegistrationID: 1, Reason: "ko", EndDate: &past})
	require.NoError(t, err)
	active, err := service.Create(ctx, CreateSuspensionInput{RegistrationID: 1, Reason: "ko", EndDate: &future})
	require.NoError(t, err)
	indefinite, err := service.Create(ctx, CreateSuspensionInput{RegistrationID: 1, Reason: "ban", Indefinite: true})
	require.NoError(t, err)

	require.NoError(t, service.ExpireDue(ctx))

	assert.Equal(t, models.SuspensionExpired, suspensionRepo.suspensions[expired.ID].Status)
	assert.Equal(t, models.SuspensionActive, suspensionRepo.suspensions[active.ID].Status)
	assert.Equal(t, models.SuspensionActive, suspensionRepo.suspensions[indefinite.ID].Status)
}
