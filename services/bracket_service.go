package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ringside/fightcard/brackets"
	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
	"github.com/ringside/fightcard/storage"
	"golang.org/x/sync/errgroup"
)

type CreateBracketInput struct {
	EventID         int     `json:"event_id"`
	BracketNumber   int     `json:"bracket_number"` // 0 means "assign the next free number"
	DivisionTitle   string  `json:"division_title"`
	AgeClass        string  `json:"age_class"`
	Sport           string  `json:"sport"`
	RuleStyle       string  `json:"rule_style"`
	BracketCriteria string  `json:"bracket_criteria"`
	WeightClass     *string `json:"weight_class"`
	MaxCompetitors  int     `json:"max_competitors"`
}

type UpdateBracketInput struct {
	BracketNumber   *int                  `json:"bracket_number"`
	DivisionTitle   *string               `json:"division_title"`
	AgeClass        *string               `json:"age_class"`
	Sport           *string               `json:"sport"`
	RuleStyle       *string               `json:"rule_style"`
	BracketCriteria *string               `json:"bracket_criteria"`
	WeightClass     *string               `json:"weight_class"`
	MaxCompetitors  *int                  `json:"max_competitors"`
	Status          *models.BracketStatus `json:"status"`
	// FighterIDs, when present, replaces the whole roster in order;
	// seeds are renumbered 1..N.
	FighterIDs *[]int `json:"fighter_ids"`
}

type BracketService interface {
	Create(ctx context.Context, input CreateBracketInput) (*models.Bracket, error)
	GetByID(ctx context.Context, id int) (*models.Bracket, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Bracket, error)
	Update(ctx context.Context, id int, input UpdateBracketInput) (*models.Bracket, error)
	Reset(ctx context.Context, id int) (*models.Bracket, error)
	Delete(ctx context.Context, id int) error
}

type bracketService struct {
	txManager    repositories.TxManager
	bracketRepo  repositories.BracketRepository
	boutRepo     repositories.BoutRepository
	fightRepo    repositories.FightRepository
	settingsRepo repositories.SettingsRepository
	uploader     storage.FileUploader
	hub          *brackets.Hub
	logger       *slog.Logger
}

func NewBracketService(
	txManager repositories.TxManager,
	bracketRepo repositories.BracketRepository,
	boutRepo repositories.BoutRepository,
	fightRepo repositories.FightRepository,
	settingsRepo repositories.SettingsRepository,
	uploader storage.FileUploader,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		txManager:    txManager,
		bracketRepo:  bracketRepo,
		boutRepo:     boutRepo,
		fightRepo:    fightRepo,
		settingsRepo: settingsRepo,
		uploader:     uploader,
		hub:          hub,
		logger:       logger,
	}
}

func (s *bracketService) Create(ctx context.Context, input CreateBracketInput) (*models.Bracket, error) {
	if input.EventID <= 0 || input.DivisionTitle == "" {
		return nil, ErrBracketFieldsMissing
	}
	if input.MaxCompetitors <= 0 {
		return nil, ErrBracketInvalidCapacity
	}

	// Capacity cap comes from the event's tournament settings. An event
	// without settings has no configured cap.
	settings, err := s.settingsRepo.GetByEvent(ctx, input.EventID)
	if err != nil && !errors.Is(err, repositories.ErrSettingsNotFound) {
		return nil, fmt.Errorf("failed to load tournament settings: %w", err)
	}
	if settings != nil && input.MaxCompetitors > settings.MaxFightersPerBracket {
		return nil, fmt.Errorf("%w: %d > %d", ErrBracketCapacityExceedsCap,
			input.MaxCompetitors, settings.MaxFightersPerBracket)
	}

	number := input.BracketNumber
	if number == 0 {
		number, err = s.bracketRepo.NextBracketNumber(ctx, nil, input.EventID)
		if err != nil {
			return nil, err
		}
	}

	bracket := &models.Bracket{
		EventID:         input.EventID,
		BracketNumber:   number,
		DivisionTitle:   input.DivisionTitle,
		AgeClass:        input.AgeClass,
		Sport:           input.Sport,
		RuleStyle:       input.RuleStyle,
		BracketCriteria: input.BracketCriteria,
		WeightClass:     input.WeightClass,
		MaxCompetitors:  input.MaxCompetitors,
		Status:          models.BracketOpen,
	}

	if err := s.bracketRepo.Create(ctx, nil, bracket); err != nil {
		return nil, translateBracketRepoError(err)
	}
	return bracket, nil
}

// GetByID loads the bracket with its roster and bouts (with recorded fights)
// populated. Roster and bouts load in parallel.
func (s *bracketService) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		seeds, err := s.bracketRepo.ListSeeds(gCtx, id)
		if err != nil {
			return err
		}
		populateSeedPhotoURLs(seeds, s.uploader)
		bracket.Fighters = seeds
		return nil
	})

	g.Go(func() error {
		bouts, err := s.boutRepo.ListByBracket(gCtx, nil, id)
		if err != nil {
			return err
		}
		result := make([]models.Bout, 0, len(bouts))
		for _, bout := range bouts {
			if bout.FightID != nil {
				fight, err := s.fightRepo.GetByBout(gCtx, bout.ID)
				if err != nil && !errors.Is(err, repositories.ErrFightNotFound) {
					return err
				}
				bout.Fight = fight
			}
			result = append(result, *bout)
		}
		bracket.Bouts = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to populate bracket %d: %w", id, err)
	}
	return bracket, nil
}

func (s *bracketService) ListByEvent(ctx context.Context, eventID int) ([]*models.Bracket, error) {
	bracketList, err := s.bracketRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return bracketList, nil
}

func (s *bracketService) Update(ctx context.Context, id int, input UpdateBracketInput) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	if input.Status != nil {
		if !isValidBracketStatus(*input.Status) {
			return nil, ErrBracketInvalidStatus
		}
		if !isValidBracketStatusTransition(bracket.Status, *input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrBracketStatusTransition, bracket.Status, *input.Status)
		}
		bracket.Status = *input.Status
	}
	if input.BracketNumber != nil {
		bracket.BracketNumber = *input.BracketNumber
	}
	if input.DivisionTitle != nil {
		bracket.DivisionTitle = *input.DivisionTitle
	}
	if input.AgeClass != nil {
		bracket.AgeClass = *input.AgeClass
	}
	if input.Sport != nil {
		bracket.Sport = *input.Sport
	}
	if input.RuleStyle != nil {
		bracket.RuleStyle = *input.RuleStyle
	}
	if input.BracketCriteria != nil {
		bracket.BracketCriteria = *input.BracketCriteria
	}
	if input.WeightClass != nil {
		bracket.WeightClass = input.WeightClass
	}
	if input.MaxCompetitors != nil {
		if *input.MaxCompetitors <= 0 {
			return nil, ErrBracketInvalidCapacity
		}
		bracket.MaxCompetitors = *input.MaxCompetitors
	}

	// A directly replaced roster must still fit the capacity.
	if input.FighterIDs != nil && len(*input.FighterIDs) > bracket.MaxCompetitors {
		return nil, fmt.Errorf("%w: %d fighters, capacity %d", ErrBracketOverCapacity,
			len(*input.FighterIDs), bracket.MaxCompetitors)
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if input.FighterIDs != nil {
			if err := s.bracketRepo.ReplaceSeeds(ctx, exec, id, *input.FighterIDs); err != nil {
				return err
			}
		}
		return s.bracketRepo.Update(ctx, bracket)
	})
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	s.notify(brackets.EventBracketUpdated, bracket)
	return bracket, nil
}

// Reset wipes a bracket back to an empty Open state. All fights under all
// bouts go first, then the bouts, then the roster; the bracket row itself
// (id, number, division title) is preserved.
func (s *bracketService) Reset(ctx context.Context, id int) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.deleteBoutsAndFights(ctx, exec, id); err != nil {
			return err
		}
		if err := s.bracketRepo.ClearSeeds(ctx, exec, id); err != nil {
			return err
		}
		return s.bracketRepo.UpdateStatus(ctx, exec, id, models.BracketOpen)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset bracket %d: %w", id, err)
	}

	bracket.Status = models.BracketOpen
	bracket.FighterCount = 0
	bracket.Fighters = []models.BracketSeed{}
	bracket.Bouts = []models.Bout{}

	s.logger.Info("bracket reset",
		slog.Int("bracket_id", id),
		slog.Int("event_id", bracket.EventID),
	)
	s.notify(brackets.EventBracketReset, bracket)
	return bracket, nil
}

func (s *bracketService) Delete(ctx context.Context, id int) error {
	bracket, err := s.bracketRepo.GetByID(ctx, id)
	if err != nil {
		return translateBracketRepoError(err)
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.deleteBoutsAndFights(ctx, exec, id); err != nil {
			return err
		}
		if err := s.bracketRepo.ClearSeeds(ctx, exec, id); err != nil {
			return err
		}
		return s.bracketRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete bracket %d: %w", id, err)
	}

	s.logger.Info("bracket deleted",
		slog.Int("bracket_id", id),
		slog.Int("event_id", bracket.EventID),
	)
	s.notify(brackets.EventBracketDeleted, bracket)
	return nil
}

// deleteBoutsAndFights removes a bracket's children leaf-first: fights,
// then bouts. Shared by Reset, Delete and the event cascade.
func (s *bracketService) deleteBoutsAndFights(ctx context.Context, exec repositories.SQLExecutor, bracketID int) error {
	bouts, err := s.boutRepo.ListByBracket(ctx, exec, bracketID)
	if err != nil {
		return err
	}
	for _, bout := range bouts {
		if err := s.fightRepo.DeleteByBout(ctx, exec, bout.ID); err != nil {
			return err
		}
	}
	return s.boutRepo.DeleteByBracket(ctx, exec, bracketID)
}

func (s *bracketService) notify(eventType string, bracket *models.Bracket) {
	if s.hub == nil {
		return
	}
	room := strconv.Itoa(bracket.EventID)
	s.hub.BroadcastToRoom(room, brackets.Message{
		Type:    eventType,
		Payload: bracket,
		RoomID:  room,
	})
}

func translateBracketRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrBracketNumberConflict):
		return ErrBracketNumberConflict
	case errors.Is(err, repositories.ErrBracketEventInvalid):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrFighterAlreadySeeded):
		return ErrFighterAlreadySeeded
	default:
		return err
	}
}
