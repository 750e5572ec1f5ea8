package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ringside/fightcard/brackets"
	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
)

type CreateBoutInput struct {
	BracketID      int        `json:"bracket_id"`
	BoutNumber     int        `json:"bout_number"`
	RedCornerID    int        `json:"red_corner_id"`
	BlueCornerID   int        `json:"blue_corner_id"`
	StartAt        *time.Time `json:"start_at"`
	WeighInAt      *time.Time `json:"weigh_in_at"`
	NumberOfRounds *int       `json:"number_of_rounds"`
	RoundDuration  *int       `json:"round_duration"`
	Notes          *string    `json:"notes"`
}

type BoutService interface {
	Create(ctx context.Context, input CreateBoutInput) (*models.Bout, error)
	// Generate builds the opening round from the bracket's current seeds,
	// top seed against bottom seed.
	Generate(ctx context.Context, bracketID int) ([]*models.Bout, error)
	GetByID(ctx context.Context, id int) (*models.Bout, error)
	ListByBracket(ctx context.Context, bracketID int) ([]*models.Bout, error)
	Delete(ctx context.Context, id int) error
}

type boutService struct {
	txManager   repositories.TxManager
	boutRepo    repositories.BoutRepository
	bracketRepo repositories.BracketRepository
	fightRepo   repositories.FightRepository
}

func NewBoutService(
	txManager repositories.TxManager,
	boutRepo repositories.BoutRepository,
	bracketRepo repositories.BracketRepository,
	fightRepo repositories.FightRepository,
) BoutService {
	return &boutService{
		txManager:   txManager,
		boutRepo:    boutRepo,
		bracketRepo: bracketRepo,
		fightRepo:   fightRepo,
	}
}

// Create pairs two seeded fighters of the bracket. Both corners must be on
// the bracket's roster; a bout between a fighter and themselves is rejected.
func (s *boutService) Create(ctx context.Context, input CreateBoutInput) (*models.Bout, error) {
	if input.RedCornerID == 0 || input.BlueCornerID == 0 {
		return nil, ErrBoutCornersRequired
	}
	if input.RedCornerID == input.BlueCornerID {
		return nil, ErrBoutSameCorner
	}

	bracket, err := s.bracketRepo.GetByID(ctx, input.BracketID)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	seeds, err := s.bracketRepo.ListSeeds(ctx, bracket.ID)
	if err != nil {
		return nil, err
	}
	seeded := make(map[int]bool, len(seeds))
	for _, seed := range seeds {
		seeded[seed.RegistrationID] = true
	}
	if !seeded[input.RedCornerID] {
		return nil, fmt.Errorf("%w: red corner %d", ErrBoutCornerNotInBracket, input.RedCornerID)
	}
	if !seeded[input.BlueCornerID] {
		return nil, fmt.Errorf("%w: blue corner %d", ErrBoutCornerNotInBracket, input.BlueCornerID)
	}

	bout := &models.Bout{
		BracketID:      input.BracketID,
		BoutNumber:     input.BoutNumber,
		RedCornerID:    input.RedCornerID,
		BlueCornerID:   input.BlueCornerID,
		StartAt:        input.StartAt,
		WeighInAt:      input.WeighInAt,
		NumberOfRounds: input.NumberOfRounds,
		RoundDuration:  input.RoundDuration,
		Notes:          input.Notes,
	}

	if err := s.boutRepo.Create(ctx, nil, bout); err != nil {
		switch {
		case errors.Is(err, repositories.ErrBoutNumberConflict):
			return nil, ErrBoutNumberConflict
		case errors.Is(err, repositories.ErrBoutCornerInvalid):
			return nil, ErrBoutCornerNotInBracket
		default:
			return nil, fmt.Errorf("failed to create bout: %w", err)
		}
	}
	return bout, nil
}

func (s *boutService) Generate(ctx context.Context, bracketID int) ([]*models.Bout, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, bracketID)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	existing, err := s.boutRepo.ListByBracket(ctx, nil, bracketID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrBracketAlreadyPaired
	}

	seeds, err := s.bracketRepo.ListSeeds(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	if len(seeds) < 2 {
		return nil, ErrBracketNotEnoughFighters
	}

	pairings := brackets.PairSeeds(seeds)
	bouts := make([]*models.Bout, 0, len(pairings))

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for i, pairing := range pairings {
			bout := &models.Bout{
				BracketID:    bracket.ID,
				BoutNumber:   i + 1,
				RedCornerID:  pairing.RedCornerID,
				BlueCornerID: pairing.BlueCornerID,
			}
			if err := s.boutRepo.Create(ctx, exec, bout); err != nil {
				return err
			}
			bouts = append(bouts, bout)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate bouts for bracket %d: %w", bracketID, err)
	}
	return bouts, nil
}

func (s *boutService) GetByID(ctx context.Context, id int) (*models.Bout, error) {
	bout, err := s.boutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBoutNotFound) {
			return nil, ErrBoutNotFound
		}
		return nil, err
	}
	if bout.FightID != nil {
		fight, err := s.fightRepo.GetByBout(ctx, bout.ID)
		if err != nil && !errors.Is(err, repositories.ErrFightNotFound) {
			return nil, err
		}
		bout.Fight = fight
	}
	return bout, nil
}

func (s *boutService) ListByBracket(ctx context.Context, bracketID int) ([]*models.Bout, error) {
	return s.boutRepo.ListByBracket(ctx, nil, bracketID)
}

// Delete removes the bout and, first, any fight recorded against it.
func (s *boutService) Delete(ctx context.Context, id int) error {
	if _, err := s.boutRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrBoutNotFound) {
			return ErrBoutNotFound
		}
		return err
	}

	return s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.fightRepo.DeleteByBout(ctx, exec, id); err != nil {
			return err
		}
		return s.boutRepo.Delete(ctx, exec, id)
	})
}
