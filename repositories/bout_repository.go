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
	ErrBoutNotFound       = errors.New("bout not found")
	ErrBoutNumberConflict = errors.New("bout number already used in this bracket")
	ErrBoutBracketInvalid = errors.New("bout bracket conflict or invalid")
	ErrBoutCornerInvalid  = errors.New("bout corner registration conflict or invalid")
)

type BoutRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bout *models.Bout) error
	GetByID(ctx context.Context, id int) (*models.Bout, error)
	ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Bout, error)
	SetFightID(ctx context.Context, exec SQLExecutor, boutID int, fightID *int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error
}

type postgresBoutRepository struct {
	db *sql.DB
}

func NewPostgresBoutRepository(db *sql.DB) BoutRepository {
	return &postgresBoutRepository{db: db}
}

func (r *postgresBoutRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const boutColumns = `
	id, bracket_id, bout_number, red_corner_id, blue_corner_id, fight_id,
	start_at, weigh_in_at, number_of_rounds, round_duration, notes, created_at`

func (r *postgresBoutRepository) Create(ctx context.Context, exec SQLExecutor, bout *models.Bout) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bouts (
			bracket_id, bout_number, red_corner_id, blue_corner_id,
			start_at, weigh_in_at, number_of_rounds, round_duration, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		bout.BracketID, bout.BoutNumber, bout.RedCornerID, bout.BlueCornerID,
		bout.StartAt, bout.WeighInAt, bout.NumberOfRounds, bout.RoundDuration, bout.Notes,
	).Scan(&bout.ID, &bout.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "bouts_bracket_id_bout_number_key" {
					return ErrBoutNumberConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "bouts_bracket_id_fkey":
					return ErrBoutBracketInvalid
				case "bouts_red_corner_id_fkey", "bouts_blue_corner_id_fkey":
					return ErrBoutCornerInvalid
				}
			}
		}
		return fmt.Errorf("failed to create bout: %w", err)
	}
	return nil
}

func (r *postgresBoutRepository) GetByID(ctx context.Context, id int) (*models.Bout, error) {
	query := fmt.Sprintf(`SELECT %s FROM bouts WHERE id = $1`, boutColumns)

	bout := &models.Bout{}
	err := r.scanBout(r.db.QueryRowContext(ctx, query, id), bout)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoutNotFound
		}
		return nil, fmt.Errorf("failed to get bout: %w", err)
	}
	return bout, nil
}

func (r *postgresBoutRepository) ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Bout, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM bouts WHERE bracket_id = $1 ORDER BY bout_number ASC`, boutColumns)

	rows, err := executor.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bouts for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	bouts := make([]*models.Bout, 0)
	for rows.Next() {
		bout := &models.Bout{}
		if err := r.scanBout(rows, bout); err != nil {
			return nil, fmt.Errorf("failed to scan bout row: %w", err)
		}
		bouts = append(bouts, bout)
	}
	return bouts, rows.Err()
}

func (r *postgresBoutRepository) SetFightID(ctx context.Context, exec SQLExecutor, boutID int, fightID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE bouts SET fight_id = $1 WHERE id = $2`, fightID, boutID)
	if err != nil {
		return fmt.Errorf("failed to set fight reference on bout %d: %w", boutID, err)
	}
	return checkAffectedRows(result, ErrBoutNotFound)
}

func (r *postgresBoutRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM bouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bout: %w", err)
	}
	return checkAffectedRows(result, ErrBoutNotFound)
}

func (r *postgresBoutRepository) DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error {
	executor := r.getExecutor(exec)
	// No affected-rows check: a bracket without bouts is not an error during cascades.
	if _, err := executor.ExecContext(ctx, `DELETE FROM bouts WHERE bracket_id = $1`, bracketID); err != nil {
		return fmt.Errorf("failed to delete bouts for bracket %d: %w", bracketID, err)
	}
	return nil
}

func (r *postgresBoutRepository) scanBout(rowScanner interface {
	Scan(dest ...interface{}) error
}, bout *models.Bout) error {
	return rowScanner.Scan(
		&bout.ID, &bout.BracketID, &bout.BoutNumber, &bout.RedCornerID, &bout.BlueCornerID,
		&bout.FightID, &bout.StartAt, &bout.WeighInAt, &bout.NumberOfRounds,
		&bout.RoundDuration, &bout.Notes, &bout.CreatedAt,
	)
}
