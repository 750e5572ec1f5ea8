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
	ErrBracketNotFound       = errors.New("bracket not found")
	ErrBracketNumberConflict = errors.New("bracket number already used for this event")
	ErrBracketEventInvalid   = errors.New("bracket event conflict or invalid")
	ErrBracketFull           = errors.New("bracket is at capacity")
	ErrBracketNotOpen        = errors.New("bracket is not open for new fighters")
	ErrFighterAlreadySeeded  = errors.New("fighter is already seeded in this bracket")
)

// OpenBracketKey is the matching key used by the automatic bracket matcher.
// All fields must match exactly; only Open brackets are considered.
type OpenBracketKey struct {
	EventID         int
	AgeClass        string
	Sport           string
	RuleStyle       string
	BracketCriteria string
}

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetByID(ctx context.Context, id int) (*models.Bracket, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Bracket, error)
	ListIDsByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]int, error)
	// FindOpenCandidates returns Open brackets matching the key that still
	// have room, fullest first, with FighterCount populated.
	FindOpenCandidates(ctx context.Context, key OpenBracketKey) ([]*models.Bracket, error)
	NextBracketNumber(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	Update(ctx context.Context, bracket *models.Bracket) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	// AssignSeed appends the fighter with the next sequential seed. The
	// count-then-append step is serialized per bracket by a row lock, which
	// is what keeps seeds contiguous under concurrent registrations.
	AssignSeed(ctx context.Context, bracketID, registrationID int) (int, error)
	ListSeeds(ctx context.Context, bracketID int) ([]models.BracketSeed, error)
	ReplaceSeeds(ctx context.Context, exec SQLExecutor, bracketID int, registrationIDs []int) error
	ClearSeeds(ctx context.Context, exec SQLExecutor, bracketID int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bracketColumns = `
	b.id, b.event_id, b.bracket_number, b.division_title, b.age_class, b.sport,
	b.rule_style, b.bracket_criteria, b.weight_class, b.max_competitors,
	b.status, b.created_at`

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Bracket) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO brackets (
			event_id, bracket_number, division_title, age_class, sport,
			rule_style, bracket_criteria, weight_class, max_competitors, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		b.EventID, b.BracketNumber, b.DivisionTitle, b.AgeClass, b.Sport,
		b.RuleStyle, b.BracketCriteria, b.WeightClass, b.MaxCompetitors, b.Status,
	).Scan(&b.ID, &b.CreatedAt)

	return r.handleBracketError(err)
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(bf.registration_id)
		FROM brackets b
		LEFT JOIN bracket_fighters bf ON bf.bracket_id = b.id
		WHERE b.id = $1
		GROUP BY b.id`, bracketColumns)

	b := &models.Bracket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.EventID, &b.BracketNumber, &b.DivisionTitle, &b.AgeClass, &b.Sport,
		&b.RuleStyle, &b.BracketCriteria, &b.WeightClass, &b.MaxCompetitors,
		&b.Status, &b.CreatedAt, &b.FighterCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to get bracket: %w", err)
	}
	return b, nil
}

func (r *postgresBracketRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Bracket, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(bf.registration_id)
		FROM brackets b
		LEFT JOIN bracket_fighters bf ON bf.bracket_id = b.id
		WHERE b.event_id = $1
		GROUP BY b.id
		ORDER BY b.bracket_number ASC`, bracketColumns)

	return r.queryBrackets(ctx, query, eventID)
}

func (r *postgresBracketRepository) ListIDsByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT id FROM brackets WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket ids for event %d: %w", eventID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bracket id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresBracketRepository) FindOpenCandidates(ctx context.Context, key OpenBracketKey) ([]*models.Bracket, error) {
	// Fuller brackets come first so divisions close faster and fewer
	// under-filled brackets remain open at event time.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(bf.registration_id)
		FROM brackets b
		LEFT JOIN bracket_fighters bf ON bf.bracket_id = b.id
		WHERE b.event_id = $1
		  AND b.status = $2
		  AND b.age_class = $3
		  AND b.sport = $4
		  AND b.rule_style = $5
		  AND b.bracket_criteria = $6
		GROUP BY b.id
		HAVING COUNT(bf.registration_id) < b.max_competitors
		ORDER BY COUNT(bf.registration_id) DESC, b.created_at ASC`, bracketColumns)

	return r.queryBrackets(ctx, query,
		key.EventID, models.BracketOpen, key.AgeClass, key.Sport, key.RuleStyle, key.BracketCriteria)
}

func (r *postgresBracketRepository) queryBrackets(ctx context.Context, query string, args ...interface{}) ([]*models.Bracket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query brackets: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Bracket, 0)
	for rows.Next() {
		b := &models.Bracket{}
		if err := rows.Scan(
			&b.ID, &b.EventID, &b.BracketNumber, &b.DivisionTitle, &b.AgeClass, &b.Sport,
			&b.RuleStyle, &b.BracketCriteria, &b.WeightClass, &b.MaxCompetitors,
			&b.Status, &b.CreatedAt, &b.FighterCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bracket row: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *postgresBracketRepository) NextBracketNumber(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	executor := r.getExecutor(exec)
	var next int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(bracket_number), 0) + 1 FROM brackets WHERE event_id = $1`,
		eventID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next bracket number for event %d: %w", eventID, err)
	}
	return next, nil
}

func (r *postgresBracketRepository) Update(ctx context.Context, b *models.Bracket) error {
	query := `
		UPDATE brackets SET
			bracket_number = $1,
			division_title = $2,
			age_class = $3,
			sport = $4,
			rule_style = $5,
			bracket_criteria = $6,
			weight_class = $7,
			max_competitors = $8,
			status = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		b.BracketNumber, b.DivisionTitle, b.AgeClass, b.Sport, b.RuleStyle,
		b.BracketCriteria, b.WeightClass, b.MaxCompetitors, b.Status, b.ID,
	)
	if err != nil {
		return r.handleBracketError(err)
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE brackets SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update bracket status: %w", err)
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM brackets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bracket: %w", err)
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) AssignSeed(ctx context.Context, bracketID, registrationID int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed assignment transaction: %w", err)
	}
	defer tx.Rollback()

	// The row lock serializes concurrent assignments for the same bracket:
	// two registrations cannot both observe the same fighter count.
	var status models.BracketStatus
	var maxCompetitors int
	err = tx.QueryRowContext(ctx,
		`SELECT status, max_competitors FROM brackets WHERE id = $1 FOR UPDATE`,
		bracketID,
	).Scan(&status, &maxCompetitors)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBracketNotFound
		}
		return 0, fmt.Errorf("failed to lock bracket %d: %w", bracketID, err)
	}
	if status != models.BracketOpen {
		return 0, ErrBracketNotOpen
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bracket_fighters WHERE bracket_id = $1`,
		bracketID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fighters in bracket %d: %w", bracketID, err)
	}
	if count >= maxCompetitors {
		return 0, ErrBracketFull
	}

	seed := count + 1
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bracket_fighters (bracket_id, registration_id, seed) VALUES ($1, $2, $3)`,
		bracketID, registrationID, seed,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return 0, ErrFighterAlreadySeeded
		}
		return 0, fmt.Errorf("failed to seed fighter %d into bracket %d: %w", registrationID, bracketID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed assignment: %w", err)
	}
	return seed, nil
}

func (r *postgresBracketRepository) ListSeeds(ctx context.Context, bracketID int) ([]models.BracketSeed, error) {
	query := `
		SELECT
			bf.bracket_id, bf.registration_id, bf.seed,
			reg.id, reg.event_id, reg.registration_type, reg.first_name, reg.last_name,
			reg.gender, reg.email, reg.date_of_birth, reg.skill_level, reg.weight_class, reg.status
		FROM bracket_fighters bf
		JOIN registrations reg ON reg.id = bf.registration_id
		WHERE bf.bracket_id = $1
		ORDER BY bf.seed ASC`

	rows, err := r.db.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	seeds := make([]models.BracketSeed, 0)
	for rows.Next() {
		var s models.BracketSeed
		var reg models.Registration
		if err := rows.Scan(
			&s.BracketID, &s.RegistrationID, &s.Seed,
			&reg.ID, &reg.EventID, &reg.RegistrationType, &reg.FirstName, &reg.LastName,
			&reg.Gender, &reg.Email, &reg.DateOfBirth, &reg.SkillLevel, &reg.WeightClass, &reg.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan seed row: %w", err)
		}
		s.Fighter = &reg
		seeds = append(seeds, s)
	}
	return seeds, rows.Err()
}

// ReplaceSeeds swaps the whole roster for an administrative edit. Seeds are
// renumbered 1..N in the order given; the capacity check happens at the
// service layer before this is called.
func (r *postgresBracketRepository) ReplaceSeeds(ctx context.Context, exec SQLExecutor, bracketID int, registrationIDs []int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM bracket_fighters WHERE bracket_id = $1`, bracketID); err != nil {
		return fmt.Errorf("failed to clear seeds for bracket %d: %w", bracketID, err)
	}
	for i, regID := range registrationIDs {
		if _, err := executor.ExecContext(ctx,
			`INSERT INTO bracket_fighters (bracket_id, registration_id, seed) VALUES ($1, $2, $3)`,
			bracketID, regID, i+1,
		); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrFighterAlreadySeeded
			}
			return fmt.Errorf("failed to replace seeds for bracket %d: %w", bracketID, err)
		}
	}
	return nil
}

func (r *postgresBracketRepository) ClearSeeds(ctx context.Context, exec SQLExecutor, bracketID int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM bracket_fighters WHERE bracket_id = $1`, bracketID); err != nil {
		return fmt.Errorf("failed to clear seeds for bracket %d: %w", bracketID, err)
	}
	return nil
}

func (r *postgresBracketRepository) handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "brackets_event_id_bracket_number_key" {
				return ErrBracketNumberConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "brackets_event_id_fkey" {
				return ErrBracketEventInvalid
			}
		}
	}
	return err
}
