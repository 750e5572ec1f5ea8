package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
)

type CreateSuspensionInput struct {
	RegistrationID int        `json:"registration_id"`
	Reason         string     `json:"reason"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Indefinite     bool       `json:"indefinite"`
}

type SuspensionService interface {
	Create(ctx context.Context, input CreateSuspensionInput) (*models.Suspension, error)
	List(ctx context.Context, status *models.SuspensionStatus) ([]*models.Suspension, error)
	Delete(ctx context.Context, id int) error
	// ExpireDue flips time-bound active suspensions whose end date has
	// passed. Meant to run on a schedule.
	ExpireDue(ctx context.Context) error
}

type suspensionService struct {
	suspensionRepo   repositories.SuspensionRepository
	registrationRepo repositories.RegistrationRepository
	logger           *slog.Logger
	now              func() time.Time
}

func NewSuspensionService(
	suspensionRepo repositories.SuspensionRepository,
	registrationRepo repositories.RegistrationRepository,
	logger *slog.Logger,
) SuspensionService {
	return &suspensionService{
		suspensionRepo:   suspensionRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *suspensionService) Create(ctx context.Context, input CreateSuspensionInput) (*models.Suspension, error) {
	if input.RegistrationID <= 0 || input.Reason == "" {
		return nil, ErrValidationFailed
	}
	if !input.Indefinite && input.EndDate == nil {
		return nil, ErrSuspensionEndRequired
	}

	if _, err := s.registrationRepo.GetByID(ctx, input.RegistrationID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	start := input.StartDate
	if start.IsZero() {
		start = s.now()
	}

	suspension := &models.Suspension{
		RegistrationID: input.RegistrationID,
		Reason:         input.Reason,
		Status:         models.SuspensionActive,
		StartDate:      start,
		EndDate:        input.EndDate,
		Indefinite:     input.Indefinite,
	}
	if err := s.suspensionRepo.Create(ctx, suspension); err != nil {
		return nil, err
	}
	return suspension, nil
}

func (s *suspensionService) List(ctx context.Context, status *models.SuspensionStatus) ([]*models.Suspension, error) {
	return s.suspensionRepo.List(ctx, status)
}

func (s *suspensionService) Delete(ctx context.Context, id int) error {
	if err := s.suspensionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSuspensionNotFound) {
			return ErrSuspensionNotFound
		}
		return err
	}
	return nil
}

func (s *suspensionService) ExpireDue(ctx context.Context) error {
	expired, err := s.suspensionRepo.ExpireDue(ctx, s.now())
	if err != nil {
		s.logger.Error("suspension expiry sweep failed", slog.Any("error", err))
		return err
	}
	if expired > 0 {
		s.logger.Info("expired suspensions", slog.Int64("count", expired))
	}
	return nil
}
