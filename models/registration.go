package models

import "time"

// RegistrationType соответствует ENUM registration_type в БД.
type RegistrationType string

const (
	RegistrationFighter RegistrationType = "fighter"
	RegistrationTrainer RegistrationType = "trainer"
)

// RegistrationStatus — статус проверки заявки администратором.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "Pending"
	RegistrationRejected RegistrationStatus = "Rejected"
	RegistrationVerified RegistrationStatus = "Verified"
)

// Registration — заявка одного бойца или тренера на одно событие.
// Пара (event_id, email) уникальна: один человек регистрируется один раз.
type Registration struct {
	ID               int                `json:"id" db:"id"`
	EventID          int                `json:"event_id" db:"event_id"`
	RegistrationType RegistrationType   `json:"registration_type" db:"registration_type"`
	FirstName        string             `json:"first_name" db:"first_name"`
	LastName         string             `json:"last_name" db:"last_name"`
	Gender           string             `json:"gender" db:"gender"`
	Email            string             `json:"email" db:"email"`
	DateOfBirth      time.Time          `json:"date_of_birth" db:"date_of_birth"`
	PhoneNumber      *string            `json:"phone_number,omitempty" db:"phone_number"`
	SkillLevel       *string            `json:"skill_level,omitempty" db:"skill_level"`
	WeightClass      *string            `json:"weight_class,omitempty" db:"weight_class"`
	WalkAroundWeight *float64           `json:"walk_around_weight,omitempty" db:"walk_around_weight"`
	CashCode         *string            `json:"cash_code,omitempty" db:"cash_code"`
	PhotoKey         *string            `json:"-" db:"photo_key"`
	PhotoURL         *string            `json:"photo_url,omitempty" db:"-"`
	Status           RegistrationStatus `json:"status" db:"status"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
}

func (r *Registration) IsFighter() bool {
	return r.RegistrationType == RegistrationFighter
}
