package models

import "time"

// Bout — один запланированный поединок двух бойцов внутри сетки.
// Пара (bracket_id, bout_number) уникальна.
type Bout struct {
	ID             int        `json:"id" db:"id"`
	BracketID      int        `json:"bracket_id" db:"bracket_id"`
	BoutNumber     int        `json:"bout_number" db:"bout_number"`
	RedCornerID    int        `json:"red_corner_id" db:"red_corner_id"`
	BlueCornerID   int        `json:"blue_corner_id" db:"blue_corner_id"`
	FightID        *int       `json:"fight_id,omitempty" db:"fight_id"`
	StartAt        *time.Time `json:"start_at,omitempty" db:"start_at"`
	WeighInAt      *time.Time `json:"weigh_in_at,omitempty" db:"weigh_in_at"`
	NumberOfRounds *int       `json:"number_of_rounds,omitempty" db:"number_of_rounds"`
	RoundDuration  *int       `json:"round_duration,omitempty" db:"round_duration"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	RedCorner  *Registration `json:"red_corner,omitempty" db:"-"`
	BlueCorner *Registration `json:"blue_corner,omitempty" db:"-"`
	Fight      *Fight        `json:"fight,omitempty" db:"-"`
}
