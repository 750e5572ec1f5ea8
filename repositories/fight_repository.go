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
	ErrFightNotFound      = errors.New("fight not found")
	ErrFightBoutConflict  = errors.New("a fight already exists for this bout")
	ErrFightBoutInvalid   = errors.New("fight bout conflict or invalid")
	ErrFightWinnerInvalid = errors.New("fight winner conflict or invalid")
)

type FightRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fight *models.Fight) error
	GetByID(ctx context.Context, id int) (*models.Fight, error)
	GetByBout(ctx context.Context, boutID int) (*models.Fight, error)
	Update(ctx context.Context, fight *models.Fight) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByBout(ctx context.Context, exec SQLExecutor, boutID int) error
}

type postgresFightRepository struct {
	db *sql.DB
}

func NewPostgresFightRepository(db *sql.DB) FightRepository {
	return &postgresFightRepository{db: db}
}

func (r *postgresFightRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fightColumns = `
	id, event_id, bracket_id, bout_id, status, winner_id,
	result_method, result_round, result_time, created_at`

func (r *postgresFightRepository) Create(ctx context.Context, exec SQLExecutor, fight *models.Fight) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fights (
			event_id, bracket_id, bout_id, status, winner_id,
			result_method, result_round, result_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		fight.EventID, fight.BracketID, fight.BoutID, fight.Status, fight.WinnerID,
		fight.ResultMethod, fight.ResultRound, fight.ResultTime,
	).Scan(&fight.ID, &fight.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation, backstop for the one-fight-per-bout rule
				if pqErr.Constraint == "fights_bout_id_key" {
					return ErrFightBoutConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "fights_bout_id_fkey":
					return ErrFightBoutInvalid
				case "fights_winner_id_fkey":
					return ErrFightWinnerInvalid
				}
			}
		}
		return fmt.Errorf("failed to create fight: %w", err)
	}
	return nil
}

func (r *postgresFightRepository) GetByID(ctx context.Context, id int) (*models.Fight, error) {
	query := fmt.Sprintf(`SELECT %s FROM fights WHERE id = $1`, fightColumns)
	return r.findOne(ctx, query, id)
}

func (r *postgresFightRepository) GetByBout(ctx context.Context, boutID int) (*models.Fight, error) {
	query := fmt.Sprintf(`SELECT %s FROM fights WHERE bout_id = $1`, fightColumns)
	return r.findOne(ctx, query, boutID)
}

func (r *postgresFightRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Fight, error) {
	f := &models.Fight{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&f.ID, &f.EventID, &f.BracketID, &f.BoutID, &f.Status, &f.WinnerID,
		&f.ResultMethod, &f.ResultRound, &f.ResultTime, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFightNotFound
		}
		return nil, fmt.Errorf("failed to find fight: %w", err)
	}
	return f, nil
}

func (r *postgresFightRepository) Update(ctx context.Context, fight *models.Fight) error {
	query := `
		UPDATE fights SET
			status = $1,
			winner_id = $2,
			result_method = $3,
			result_round = $4,
			result_time = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		fight.Status, fight.WinnerID, fight.ResultMethod,
		fight.ResultRound, fight.ResultTime, fight.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" &&
			pqErr.Constraint == "fights_winner_id_fkey" {
			return ErrFightWinnerInvalid
		}
		return fmt.Errorf("failed to update fight: %w", err)
	}
	return checkAffectedRows(result, ErrFightNotFound)
}

func (r *postgresFightRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM fights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fight: %w", err)
	}
	return checkAffectedRows(result, ErrFightNotFound)
}

func (r *postgresFightRepository) DeleteByBout(ctx context.Context, exec SQLExecutor, boutID int) error {
	executor := r.getExecutor(exec)
	// A bout without a fight is fine during cascades, so no affected-rows check.
	if _, err := executor.ExecContext(ctx, `DELETE FROM fights WHERE bout_id = $1`, boutID); err != nil {
		return fmt.Errorf("failed to delete fights for bout %d: %w", boutID, err)
	}
	return nil
}
