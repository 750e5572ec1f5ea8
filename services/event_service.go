package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
)

type CreateEventInput struct {
	Name        string    `json:"name"`
	SportType   string    `json:"sport_type"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartDate   time.Time `json:"start_date"`
	IsPublished bool      `json:"is_published"`
}

type UpdateEventInput struct {
	Name        *string    `json:"name"`
	SportType   *string    `json:"sport_type"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	IsPublished *bool      `json:"is_published"`
}

type UpsertSettingsInput struct {
	MaxFightersPerBracket int     `json:"max_fighters_per_bracket"`
	FighterFee            float64 `json:"fighter_fee"`
	TrainerFee            float64 `json:"trainer_fee"`
	Currency              string  `json:"currency"`
}

type EventService interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error)
	Update(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id int) error

	GetSettings(ctx context.Context, eventID int) (*models.TournamentSettings, error)
	UpsertSettings(ctx context.Context, eventID int, input UpsertSettingsInput) (*models.TournamentSettings, error)
}

type eventService struct {
	txManager    repositories.TxManager
	eventRepo    repositories.EventRepository
	settingsRepo repositories.SettingsRepository
	bracketRepo  repositories.BracketRepository
	boutRepo     repositories.BoutRepository
	fightRepo    repositories.FightRepository
	logger       *slog.Logger
}

func NewEventService(
	txManager repositories.TxManager,
	eventRepo repositories.EventRepository,
	settingsRepo repositories.SettingsRepository,
	bracketRepo repositories.BracketRepository,
	boutRepo repositories.BoutRepository,
	fightRepo repositories.FightRepository,
	logger *slog.Logger,
) EventService {
	return &eventService{
		txManager:    txManager,
		eventRepo:    eventRepo,
		settingsRepo: settingsRepo,
		bracketRepo:  bracketRepo,
		boutRepo:     boutRepo,
		fightRepo:    fightRepo,
		logger:       logger,
	}
}

func (s *eventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if input.Name == "" || input.SportType == "" || input.StartDate.IsZero() {
		return nil, ErrValidationFailed
	}

	event := &models.Event{
		Name:        input.Name,
		SportType:   input.SportType,
		Description: input.Description,
		Location:    input.Location,
		StartDate:   input.StartDate,
		IsPublished: input.IsPublished,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	settings, err := s.settingsRepo.GetByEvent(ctx, id)
	if err != nil && !errors.Is(err, repositories.ErrSettingsNotFound) {
		return nil, err
	}
	event.Settings = settings
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	return s.eventRepo.List(ctx, filter)
}

func (s *eventService) Update(ctx context.Context, id int, input UpdateEventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.SportType != nil {
		event.SportType = *input.SportType
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.IsPublished != nil {
		event.IsPublished = *input.IsPublished
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event and everything under it, leaf-first: fights,
// bouts, seeds, brackets, settings, then the event row itself. One
// transaction, so a failure partway leaves the event intact.
func (s *eventService) Delete(ctx context.Context, id int) error {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		bracketIDs, err := s.bracketRepo.ListIDsByEvent(ctx, exec, id)
		if err != nil {
			return err
		}
		for _, bracketID := range bracketIDs {
			bouts, err := s.boutRepo.ListByBracket(ctx, exec, bracketID)
			if err != nil {
				return err
			}
			for _, bout := range bouts {
				if err := s.fightRepo.DeleteByBout(ctx, exec, bout.ID); err != nil {
					return err
				}
			}
			if err := s.boutRepo.DeleteByBracket(ctx, exec, bracketID); err != nil {
				return err
			}
			if err := s.bracketRepo.ClearSeeds(ctx, exec, bracketID); err != nil {
				return err
			}
			if err := s.bracketRepo.Delete(ctx, exec, bracketID); err != nil {
				return err
			}
		}
		if err := s.settingsRepo.DeleteByEvent(ctx, exec, id); err != nil {
			return err
		}
		return s.eventRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}

	s.logger.Info("event deleted", slog.Int("event_id", id))
	return nil
}

func (s *eventService) GetSettings(ctx context.Context, eventID int) (*models.TournamentSettings, error) {
	settings, err := s.settingsRepo.GetByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingsNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (s *eventService) UpsertSettings(ctx context.Context, eventID int, input UpsertSettingsInput) (*models.TournamentSettings, error) {
	if input.MaxFightersPerBracket < 2 {
		return nil, ErrBracketInvalidCapacity
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	settings := &models.TournamentSettings{
		EventID:               eventID,
		MaxFightersPerBracket: input.MaxFightersPerBracket,
		FighterFee:            input.FighterFee,
		TrainerFee:            input.TrainerFee,
		Currency:              input.Currency,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
