package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ringside/fightcard/models"
)

var (
	ErrSettingsNotFound     = errors.New("tournament settings not found")
	ErrSettingsEventInvalid = errors.New("tournament settings event conflict or invalid")
)

type SettingsRepository interface {
	GetByEvent(ctx context.Context, eventID int) (*models.TournamentSettings, error)
	Upsert(ctx context.Context, settings *models.TournamentSettings) error
	DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSettingsRepository) GetByEvent(ctx context.Context, eventID int) (*models.TournamentSettings, error) {
	query := `
		SELECT id, event_id, max_fighters_per_bracket, fighter_fee, trainer_fee, currency, created_at
		FROM tournament_settings
		WHERE event_id = $1`

	s := &models.TournamentSettings{}
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&s.ID, &s.EventID, &s.MaxFightersPerBracket,
		&s.FighterFee, &s.TrainerFee, &s.Currency, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get tournament settings for event %d: %w", eventID, err)
	}
	return s, nil
}

func (r *postgresSettingsRepository) Upsert(ctx context.Context, s *models.TournamentSettings) error {
	query := `
		INSERT INTO tournament_settings (event_id, max_fighters_per_bracket, fighter_fee, trainer_fee, currency)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			max_fighters_per_bracket = EXCLUDED.max_fighters_per_bracket,
			fighter_fee = EXCLUDED.fighter_fee,
			trainer_fee = EXCLUDED.trainer_fee,
			currency = EXCLUDED.currency
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.EventID, s.MaxFightersPerBracket, s.FighterFee, s.TrainerFee, s.Currency,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" &&
			pqErr.Constraint == "tournament_settings_event_id_fkey" {
			return ErrSettingsEventInvalid
		}
		return fmt.Errorf("failed to upsert tournament settings: %w", err)
	}
	return nil
}

func (r *postgresSettingsRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	// Events may legitimately have no settings row yet, so no affected-rows check.
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM tournament_settings WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete tournament settings for event %d: %w", eventID, err)
	}
	return nil
}
