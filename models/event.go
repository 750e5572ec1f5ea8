package models

import "time"

// Event представляет одно соревновательное мероприятие (турнирный день).
type Event struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SportType   string    `json:"sport_type" db:"sport_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	Location    *string   `json:"location,omitempty" db:"location"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Settings *TournamentSettings `json:"settings,omitempty" db:"-"`
	Brackets []Bracket           `json:"brackets,omitempty" db:"-"`
}

// TournamentSettings хранит настройки турнира для одного события,
// включая лимит бойцов на сетку, используемый при создании сеток.
type TournamentSettings struct {
	ID                    int       `json:"id" db:"id"`
	EventID               int       `json:"event_id" db:"event_id"`
	MaxFightersPerBracket int       `json:"max_fighters_per_bracket" db:"max_fighters_per_bracket"`
	FighterFee            float64   `json:"fighter_fee" db:"fighter_fee"`
	TrainerFee            float64   `json:"trainer_fee" db:"trainer_fee"`
	Currency              string    `json:"currency" db:"currency"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}
