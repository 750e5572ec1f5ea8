package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ringside/fightcard/models"
)

var (
	ErrSuspensionNotFound            = errors.New("suspension not found")
	ErrSuspensionRegistrationInvalid = errors.New("suspension registration conflict or invalid")
)

type SuspensionRepository interface {
	Create(ctx context.Context, suspension *models.Suspension) error
	List(ctx context.Context, status *models.SuspensionStatus) ([]*models.Suspension, error)
	Delete(ctx context.Context, id int) error
	// ExpireDue marks active, time-bound suspensions whose end date has
	// passed as expired and reports how many rows changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type postgresSuspensionRepository struct {
	db *sql.DB
}

func NewPostgresSuspensionRepository(db *sql.DB) SuspensionRepository {
	return &postgresSuspensionRepository{db: db}
}

func (r *postgresSuspensionRepository) Create(ctx context.Context, s *models.Suspension) error {
	query := `
		INSERT INTO suspensions (registration_id, reason, status, start_date, end_date, indefinite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.RegistrationID, s.Reason, s.Status, s.StartDate, s.EndDate, s.Indefinite,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" &&
			pqErr.Constraint == "suspensions_registration_id_fkey" {
			return ErrSuspensionRegistrationInvalid
		}
		return fmt.Errorf("failed to create suspension: %w", err)
	}
	return nil
}

func (r *postgresSuspensionRepository) List(ctx context.Context, status *models.SuspensionStatus) ([]*models.Suspension, error) {
	query := `
		SELECT id, registration_id, reason, status, start_date, end_date, indefinite, created_at
		FROM suspensions`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspensions: %w", err)
	}
	defer rows.Close()

	suspensions := make([]*models.Suspension, 0)
	for rows.Next() {
		s := &models.Suspension{}
		if err := rows.Scan(
			&s.ID, &s.RegistrationID, &s.Reason, &s.Status,
			&s.StartDate, &s.EndDate, &s.Indefinite, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan suspension row: %w", err)
		}
		suspensions = append(suspensions, s)
	}
	return suspensions, rows.Err()
}

func (r *postgresSuspensionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suspensions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete suspension: %w", err)
	}
	return checkAffectedRows(result, ErrSuspensionNotFound)
}

func (r *postgresSuspensionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE suspensions
		SET status = $1
		WHERE status = $2 AND indefinite = FALSE AND end_date IS NOT NULL AND end_date <= $3`

	result, err := r.db.ExecContext(ctx, query,
		models.SuspensionExpired, models.SuspensionActive, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire due suspensions: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check expired suspension rows: %w", err)
	}
	return rowsAffected, nil
}
