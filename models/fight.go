package models

import "time"

type FightStatus string

const (
	FightScheduled  FightStatus = "Scheduled"
	FightInProgress FightStatus = "In Progress"
	FightCompleted  FightStatus = "Completed"
)

type FightResultMethod string

const (
	ResultDecision     FightResultMethod = "Decision"
	ResultKnockout     FightResultMethod = "Knockout"
	ResultWalkover     FightResultMethod = "Walkover"
	ResultDisqualified FightResultMethod = "Disqualified"
	ResultDraw         FightResultMethod = "Draw"
	ResultOther        FightResultMethod = "Other"
)

// Fight — зафиксированный результат одного боя. На один Bout приходится
// не более одного Fight (уникальный индекс по bout_id).
type Fight struct {
	ID           int                `json:"id" db:"id"`
	EventID      int                `json:"event_id" db:"event_id"`
	BracketID    int                `json:"bracket_id" db:"bracket_id"`
	BoutID       int                `json:"bout_id" db:"bout_id"`
	Status       FightStatus        `json:"status" db:"status"`
	WinnerID     *int               `json:"winner_id,omitempty" db:"winner_id"`
	ResultMethod *FightResultMethod `json:"result_method,omitempty" db:"result_method"`
	ResultRound  *int               `json:"result_round,omitempty" db:"result_round"`
	ResultTime   *string            `json:"result_time,omitempty" db:"result_time"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`

	Winner *Registration `json:"winner,omitempty" db:"-"`
}
