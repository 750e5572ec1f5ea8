package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed          = errors.New("validation failed")
	ErrRegistrationFieldsMissing = errors.New("registration type, name, email, event and date of birth are required")
	ErrRegistrationInvalidType   = errors.New("registration type must be 'fighter' or 'trainer'")
	ErrRegistrationInvalidStatus = errors.New("invalid registration status provided")
	ErrBracketFieldsMissing      = errors.New("bracket event, division title and capacity are required")
	ErrBracketInvalidCapacity    = errors.New("bracket capacity must be positive")
	ErrBracketCapacityExceedsCap = errors.New("bracket capacity exceeds the event's max fighters per bracket")
	ErrBracketOverCapacity       = errors.New("bracket fighter list exceeds its capacity")
	ErrBracketInvalidStatus      = errors.New("invalid bracket status provided")
	ErrBracketStatusTransition   = errors.New("invalid bracket status transition")
	ErrBracketNotEnoughFighters  = errors.New("bracket needs at least two seeded fighters")
	ErrBracketAlreadyPaired      = errors.New("bracket already has bouts")
	ErrBoutCornersRequired       = errors.New("bout requires both red and blue corners")
	ErrBoutSameCorner            = errors.New("bout corners must be two different fighters")
	ErrBoutCornerNotInBracket    = errors.New("bout corner is not seeded in the bracket")
	ErrFightInvalidStatus        = errors.New("invalid fight status provided")
	ErrFightWinnerNotInBout      = errors.New("fight winner must be one of the bout's corners")
	ErrSuspensionEndRequired     = errors.New("time-bound suspension requires an end date")

	// Ошибки конфликтов
	ErrRegistrationConflict  = errors.New("this email is already registered for the event")
	ErrBracketNumberConflict = errors.New("bracket number already used for this event")
	ErrBracketFull           = errors.New("bracket is at capacity")
	ErrBoutNumberConflict    = errors.New("bout number already used in this bracket")
	ErrBoutAlreadyHasFight   = errors.New("bout already has a recorded fight")
	ErrFighterAlreadySeeded  = errors.New("fighter is already seeded in this bracket")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Ошибки, специфичные для сущностей
	ErrEventNotFound        = errors.New("event not found")
	ErrSettingsNotFound     = errors.New("tournament settings not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrBracketNotFound      = errors.New("bracket not found")
	ErrBoutNotFound         = errors.New("bout not found")
	ErrFightNotFound        = errors.New("fight not found")
	ErrSuspensionNotFound   = errors.New("suspension not found")
	ErrUserNotFound         = errors.New("user not found")
)
