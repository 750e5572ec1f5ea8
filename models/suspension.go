package models

import "time"

type SuspensionStatus string

const (
	SuspensionActive  SuspensionStatus = "Active"
	SuspensionExpired SuspensionStatus = "Expired"
	SuspensionLifted  SuspensionStatus = "Lifted"
)

// Suspension — дисквалификация бойца. Ограниченные по времени записи
// истекают автоматически фоновым обходом (раз в час).
type Suspension struct {
	ID             int              `json:"id" db:"id"`
	RegistrationID int              `json:"registration_id" db:"registration_id"`
	Reason         string           `json:"reason" db:"reason"`
	Status         SuspensionStatus `json:"status" db:"status"`
	StartDate      time.Time        `json:"start_date" db:"start_date"`
	EndDate        *time.Time       `json:"end_date,omitempty" db:"end_date"`
	Indefinite     bool             `json:"indefinite" db:"indefinite"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
