package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ringside/fightcard/brackets"
	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/repositories"
)

var ErrMatcherNotAFighter = errors.New("only fighter registrations can be placed into brackets")

// createRetries bounds how often the fallback bracket creation is retried
// when a concurrent registration claims the same bracket number first.
const createRetries = 3

// MatcherConfig carries the defaults applied to auto-created brackets.
// They come from configuration, never from the algorithm itself.
type MatcherConfig struct {
	DefaultMaxCompetitors int
	RuleStyle             string
}

// BracketMatcher places a fighter registration into a compatible open
// bracket, creating a new one when no open bracket fits.
type BracketMatcher interface {
	PlaceFighter(ctx context.Context, reg *models.Registration) (*models.Bracket, int, error)
}

type bracketMatcher struct {
	bracketRepo repositories.BracketRepository
	eventRepo   repositories.EventRepository
	cfg         MatcherConfig
	hub         *brackets.Hub
	logger      *slog.Logger
	now         func() time.Time
}

func NewBracketMatcher(
	bracketRepo repositories.BracketRepository,
	eventRepo repositories.EventRepository,
	cfg MatcherConfig,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketMatcher {
	return &bracketMatcher{
		bracketRepo: bracketRepo,
		eventRepo:   eventRepo,
		cfg:         cfg,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

// PlaceFighter derives the matching key for the registration, seeds the
// fighter into the fullest open bracket that still has room, and falls back
// to creating a fresh bracket. It returns the bracket and the assigned seed.
func (m *bracketMatcher) PlaceFighter(ctx context.Context, reg *models.Registration) (*models.Bracket, int, error) {
	if !reg.IsFighter() {
		return nil, 0, ErrMatcherNotAFighter
	}

	event, err := m.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, 0, fmt.Errorf("%w: event %d", ErrEventNotFound, reg.EventID)
		}
		return nil, 0, fmt.Errorf("failed to load event %d for bracket matching: %w", reg.EventID, err)
	}

	criteria := brackets.CriteriaForRegistration(reg, event.SportType, m.cfg.RuleStyle, m.now())
	key := repositories.OpenBracketKey{
		EventID:         criteria.EventID,
		AgeClass:        criteria.AgeClass,
		Sport:           criteria.Sport,
		RuleStyle:       criteria.RuleStyle,
		BracketCriteria: criteria.BracketCriteria,
	}

	candidates, err := m.bracketRepo.FindOpenCandidates(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find candidate brackets: %w", err)
	}

	// Candidates come back fullest first. A candidate can fill up (or close)
	// between the query and the seed insert, so a full/closed bracket just
	// means moving on to the next one.
	for _, candidate := range candidates {
		seed, err := m.bracketRepo.AssignSeed(ctx, candidate.ID, reg.ID)
		switch {
		case err == nil:
			candidate.FighterCount++
			m.notifyBracketUpdated(candidate)
			return candidate, seed, nil
		case errors.Is(err, repositories.ErrBracketFull),
			errors.Is(err, repositories.ErrBracketNotOpen),
			errors.Is(err, repositories.ErrBracketNotFound):
			continue
		case errors.Is(err, repositories.ErrFighterAlreadySeeded):
			// A previous placement attempt already seeded this fighter;
			// nothing left to do.
			return candidate, 0, nil
		default:
			return nil, 0, fmt.Errorf("failed to seed fighter %d into bracket %d: %w", reg.ID, candidate.ID, err)
		}
	}

	return m.createAndSeed(ctx, reg, criteria)
}

func (m *bracketMatcher) createAndSeed(ctx context.Context, reg *models.Registration, criteria brackets.Criteria) (*models.Bracket, int, error) {
	title := brackets.DivisionTitle(reg.Gender, criteria.BracketCriteria, derefString(reg.WeightClass))

	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		number, err := m.bracketRepo.NextBracketNumber(ctx, nil, reg.EventID)
		if err != nil {
			return nil, 0, err
		}

		bracket := &models.Bracket{
			EventID:         reg.EventID,
			BracketNumber:   number,
			DivisionTitle:   title,
			AgeClass:        criteria.AgeClass,
			Sport:           criteria.Sport,
			RuleStyle:       criteria.RuleStyle,
			BracketCriteria: criteria.BracketCriteria,
			WeightClass:     reg.WeightClass,
			MaxCompetitors:  m.cfg.DefaultMaxCompetitors,
			Status:          models.BracketOpen,
		}

		if err := m.bracketRepo.Create(ctx, nil, bracket); err != nil {
			if errors.Is(err, repositories.ErrBracketNumberConflict) {
				// Another registration grabbed this number; recompute and retry.
				lastErr = err
				continue
			}
			return nil, 0, fmt.Errorf("failed to create bracket for event %d: %w", reg.EventID, err)
		}

		seed, err := m.bracketRepo.AssignSeed(ctx, bracket.ID, reg.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to seed fighter %d into new bracket %d: %w", reg.ID, bracket.ID, err)
		}
		bracket.FighterCount = 1

		m.logger.Info("created bracket for unmatched fighter",
			slog.Int("event_id", reg.EventID),
			slog.Int("bracket_id", bracket.ID),
			slog.Int("bracket_number", bracket.BracketNumber),
			slog.String("division_title", bracket.DivisionTitle),
		)
		m.notifyBracketUpdated(bracket)
		return bracket, seed, nil
	}

	return nil, 0, fmt.Errorf("failed to create bracket after %d attempts: %w", createRetries, lastErr)
}

func (m *bracketMatcher) notifyBracketUpdated(bracket *models.Bracket) {
	if m.hub == nil {
		return
	}
	m.hub.BroadcastToRoom(strconv.Itoa(bracket.EventID), brackets.Message{
		Type:    brackets.EventBracketUpdated,
		Payload: bracket,
		RoomID:  strconv.Itoa(bracket.EventID),
	})
}
