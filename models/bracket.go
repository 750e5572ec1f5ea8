package models

import "time"

// BracketStatus представляет статусы сетки, соответствующие ENUM в БД.
// Только сетки в статусе Open участвуют в автоматическом подборе.
type BracketStatus string

const (
	BracketOpen        BracketStatus = "Open"
	BracketStarted     BracketStatus = "Started"
	BracketCompleted   BracketStatus = "Completed"
	BracketCancelled   BracketStatus = "Cancelled"
	BracketNotReadyYet BracketStatus = "Not Ready Yet"
	BracketClosed      BracketStatus = "Closed To New Participants"
	BracketUndefined   BracketStatus = "Undefined"
)

// Bracket — один дивизион внутри события: упорядоченный список бойцов,
// которых затем разбивают на бои. Пара (event_id, bracket_number) уникальна.
type Bracket struct {
	ID              int           `json:"id" db:"id"`
	EventID         int           `json:"event_id" db:"event_id"`
	BracketNumber   int           `json:"bracket_number" db:"bracket_number"`
	DivisionTitle   string        `json:"division_title" db:"division_title"`
	AgeClass        string        `json:"age_class" db:"age_class"`
	Sport           string        `json:"sport" db:"sport"` // e.g. "Kickboxing (Male)"
	RuleStyle       string        `json:"rule_style" db:"rule_style"`
	BracketCriteria string        `json:"bracket_criteria" db:"bracket_criteria"`
	WeightClass     *string       `json:"weight_class,omitempty" db:"weight_class"`
	MaxCompetitors  int           `json:"max_competitors" db:"max_competitors"`
	Status          BracketStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`

	// FighterCount заполняется запросами, которым нужна текущая заполненность.
	FighterCount int `json:"fighter_count" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Event    *Event        `json:"event,omitempty" db:"-"`
	Fighters []BracketSeed `json:"fighters,omitempty" db:"-"`
	Bouts    []Bout        `json:"bouts,omitempty" db:"-"`
}

// BracketSeed — позиция одного бойца в сетке. Посевы в пределах одной
// сетки образуют непрерывную последовательность 1..N без дубликатов.
type BracketSeed struct {
	BracketID      int `json:"bracket_id" db:"bracket_id"`
	RegistrationID int `json:"registration_id" db:"registration_id"`
	Seed           int `json:"seed" db:"seed"`

	Fighter *Registration `json:"fighter,omitempty" db:"-"`
}
