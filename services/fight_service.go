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
)

type RecordFightInput struct {
	BoutID       int                       `json:"bout_id"`
	Status       models.FightStatus        `json:"status"`
	WinnerID     *int                      `json:"winner_id"`
	ResultMethod *models.FightResultMethod `json:"result_method"`
	ResultRound  *int                      `json:"result_round"`
	ResultTime   *string                   `json:"result_time"`
}

type UpdateFightInput struct {
	Status       *models.FightStatus       `json:"status"`
	WinnerID     *int                      `json:"winner_id"`
	ResultMethod *models.FightResultMethod `json:"result_method"`
	ResultRound  *int                      `json:"result_round"`
	ResultTime   *string                   `json:"result_time"`
}

type FightService interface {
	Record(ctx context.Context, input RecordFightInput) (*models.Fight, error)
	GetByID(ctx context.Context, id int) (*models.Fight, error)
	Update(ctx context.Context, id int, input UpdateFightInput) (*models.Fight, error)
	Delete(ctx context.Context, id int) error
}

type fightService struct {
	txManager   repositories.TxManager
	fightRepo   repositories.FightRepository
	boutRepo    repositories.BoutRepository
	bracketRepo repositories.BracketRepository
	hub         *brackets.Hub
	logger      *slog.Logger
}

func NewFightService(
	txManager repositories.TxManager,
	fightRepo repositories.FightRepository,
	boutRepo repositories.BoutRepository,
	bracketRepo repositories.BracketRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) FightService {
	return &fightService{
		txManager:   txManager,
		fightRepo:   fightRepo,
		boutRepo:    boutRepo,
		bracketRepo: bracketRepo,
		hub:         hub,
		logger:      logger,
	}
}

// Record creates the fight for a bout and links it back via bouts.fight_id.
// A bout carries at most one fight: a second record attempt is rejected here,
// and the unique index on fights.bout_id backstops concurrent attempts.
func (s *fightService) Record(ctx context.Context, input RecordFightInput) (*models.Fight, error) {
	bout, err := s.boutRepo.GetByID(ctx, input.BoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrBoutNotFound) {
			return nil, ErrBoutNotFound
		}
		return nil, err
	}
	if bout.FightID != nil {
		return nil, ErrBoutAlreadyHasFight
	}

	bracket, err := s.bracketRepo.GetByID(ctx, bout.BracketID)
	if err != nil {
		return nil, translateBracketRepoError(err)
	}

	status := input.Status
	if status == "" {
		status = models.FightScheduled
	}
	if !isValidFightStatus(status) {
		return nil, ErrFightInvalidStatus
	}
	if input.WinnerID != nil &&
		*input.WinnerID != bout.RedCornerID && *input.WinnerID != bout.BlueCornerID {
		return nil, fmt.Errorf("%w: winner %d", ErrFightWinnerNotInBout, *input.WinnerID)
	}

	fight := &models.Fight{
		EventID:      bracket.EventID,
		BracketID:    bout.BracketID,
		BoutID:       bout.ID,
		Status:       status,
		WinnerID:     input.WinnerID,
		ResultMethod: input.ResultMethod,
		ResultRound:  input.ResultRound,
		ResultTime:   input.ResultTime,
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.fightRepo.Create(ctx, exec, fight); err != nil {
			if errors.Is(err, repositories.ErrFightBoutConflict) {
				return ErrBoutAlreadyHasFight
			}
			return err
		}
		return s.boutRepo.SetFightID(ctx, exec, bout.ID, &fight.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fight recorded",
		slog.Int("fight_id", fight.ID),
		slog.Int("bout_id", bout.ID),
		slog.Int("bracket_id", bout.BracketID),
	)
	s.notify(bracket.EventID, fight)
	return fight, nil
}

func (s *fightService) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	fight, err := s.fightRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFightNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return fight, nil
}

func (s *fightService) Update(ctx context.Context, id int, input UpdateFightInput) (*models.Fight, error) {
	fight, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bout, err := s.boutRepo.GetByID(ctx, fight.BoutID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !isValidFightStatus(*input.Status) {
			return nil, ErrFightInvalidStatus
		}
		fight.Status = *input.Status
	}
	if input.WinnerID != nil {
		if *input.WinnerID != bout.RedCornerID && *input.WinnerID != bout.BlueCornerID {
			return nil, fmt.Errorf("%w: winner %d", ErrFightWinnerNotInBout, *input.WinnerID)
		}
		fight.WinnerID = input.WinnerID
	}
	if input.ResultMethod != nil {
		fight.ResultMethod = input.ResultMethod
	}
	if input.ResultRound != nil {
		fight.ResultRound = input.ResultRound
	}
	if input.ResultTime != nil {
		fight.ResultTime = input.ResultTime
	}

	if err := s.fightRepo.Update(ctx, fight); err != nil {
		return nil, err
	}
	s.notify(fight.EventID, fight)
	return fight, nil
}

// Delete removes the fight and detaches it from its bout, so the bout can
// be refought or corrected.
func (s *fightService) Delete(ctx context.Context, id int) error {
	fight, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.boutRepo.SetFightID(ctx, exec, fight.BoutID, nil); err != nil {
			return err
		}
		return s.fightRepo.Delete(ctx, exec, id)
	})
}

func (s *fightService) notify(eventID int, fight *models.Fight) {
	if s.hub == nil {
		return
	}
	room := strconv.Itoa(eventID)
	s.hub.BroadcastToRoom(room, brackets.Message{
		Type:    brackets.EventFightRecorded,
		Payload: fight,
		RoomID:  room,
	})
}
