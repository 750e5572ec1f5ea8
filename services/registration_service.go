package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
	"github.com/ringside/fightcard/storage"
)

type CreateRegistrationInput struct {
	EventID          int                     `json:"event_id"`
	RegistrationType models.RegistrationType `json:"registration_type"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Gender           string                  `json:"gender"`
	Email            string                  `json:"email"`
	DateOfBirth      time.Time               `json:"date_of_birth"`
	PhoneNumber      *string                 `json:"phone_number"`
	SkillLevel       *string                 `json:"skill_level"`
	WeightClass      *string                 `json:"weight_class"`
	WalkAroundWeight *float64                `json:"walk_around_weight"`
	CashCode         *string                 `json:"cash_code"`
}

type RegistrationService interface {
	Create(ctx context.Context, input CreateRegistrationInput) (*models.Registration, error)
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) (*models.Registration, error)
	UploadPhoto(ctx context.Context, id int, file io.Reader, size int64, contentType string) (*models.Registration, error)
	Delete(ctx context.Context, id int) error
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	eventRepo        repositories.EventRepository
	placements       PlacementQueue
	email            EmailService
	uploader         storage.FileUploader
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	eventRepo repositories.EventRepository,
	placements PlacementQueue,
	email EmailService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		placements:       placements,
		email:            email,
		uploader:         uploader,
		logger:           logger,
	}
}

// Create persists the registration and, for fighters, hands it to the
// placement queue. Placement and the confirmation email are side effects:
// neither can fail an already-saved registration.
func (s *registrationService) Create(ctx context.Context, input CreateRegistrationInput) (*models.Registration, error) {
	if input.EventID <= 0 || input.FirstName == "" || input.LastName == "" ||
		input.Email == "" || input.DateOfBirth.IsZero() {
		return nil, ErrRegistrationFieldsMissing
	}
	if input.RegistrationType != models.RegistrationFighter && input.RegistrationType != models.RegistrationTrainer {
		return nil, ErrRegistrationInvalidType
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", input.EventID, err)
	}

	reg := &models.Registration{
		EventID:          input.EventID,
		RegistrationType: input.RegistrationType,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Gender:           input.Gender,
		Email:            input.Email,
		DateOfBirth:      input.DateOfBirth,
		PhoneNumber:      input.PhoneNumber,
		SkillLevel:       input.SkillLevel,
		WeightClass:      input.WeightClass,
		WalkAroundWeight: input.WalkAroundWeight,
		CashCode:         input.CashCode,
		Status:           models.RegistrationPending,
	}

	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	if reg.IsFighter() && s.placements != nil {
		s.placements.Enqueue(reg)
	}

	if s.email != nil {
		if err := s.email.SendRegistrationConfirmation(reg, event); err != nil {
			s.logger.Error("failed to send registration confirmation",
				slog.Int("registration_id", reg.ID),
				slog.String("email", reg.Email),
				slog.Any("error", err),
			)
		}
	}

	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	populateRegistrationPhotoURL(reg, s.uploader)
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error) {
	regs, err := s.registrationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, reg := range regs {
		populateRegistrationPhotoURL(reg, s.uploader)
	}
	return regs, nil
}

func (s *registrationService) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) (*models.Registration, error) {
	if !isValidRegistrationStatus(status) {
		return nil, ErrRegistrationInvalidStatus
	}
	if err := s.registrationRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *registrationService) UploadPhoto(ctx context.Context, id int, file io.Reader, size int64, contentType string) (*models.Registration, error) {
	reg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.uploader.UploadFile(ctx, file, size, contentType, fmt.Sprintf("registrations/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to upload registration photo: %w", err)
	}

	if err := s.registrationRepo.UpdatePhotoKey(ctx, id, &key); err != nil {
		return nil, err
	}

	reg.PhotoKey = &key
	populateRegistrationPhotoURL(reg, s.uploader)
	return reg, nil
}

func (s *registrationService) Delete(ctx context.Context, id int) error {
	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}
	return nil
}
