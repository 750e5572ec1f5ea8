package services

import (
	"github.com/ringside/fightcard/models"
	"github.com/ringside/fightcard/storage"
)

// --- Общие хелперы ---

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isValidBracketStatus(status models.BracketStatus) bool {
	switch status {
	case models.BracketOpen, models.BracketStarted, models.BracketCompleted,
		models.BracketCancelled, models.BracketNotReadyYet, models.BracketClosed,
		models.BracketUndefined:
		return true
	}
	return false
}

func isValidBracketStatusTransition(current, next models.BracketStatus) bool {
	if current == next {
		return true
	}
	// Undefined is a legacy catch-all: anything may be assigned from it.
	if current == models.BracketUndefined {
		return true
	}
	allowedTransitions := map[models.BracketStatus][]models.BracketStatus{
		models.BracketOpen:        {models.BracketStarted, models.BracketClosed, models.BracketCancelled},
		models.BracketClosed:      {models.BracketOpen, models.BracketStarted, models.BracketCancelled},
		models.BracketNotReadyYet: {models.BracketOpen, models.BracketCancelled},
		models.BracketStarted:     {models.BracketCompleted, models.BracketCancelled},
		models.BracketCompleted:   {},
		models.BracketCancelled:   {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func isValidRegistrationStatus(status models.RegistrationStatus) bool {
	switch status {
	case models.RegistrationPending, models.RegistrationRejected, models.RegistrationVerified:
		return true
	}
	return false
}

func isValidFightStatus(status models.FightStatus) bool {
	switch status {
	case models.FightScheduled, models.FightInProgress, models.FightCompleted:
		return true
	}
	return false
}

// --- Хелперы для заполнения публичных URL фотографий ---

func populateRegistrationPhotoURL(reg *models.Registration, uploader storage.FileUploader) {
	if reg != nil && reg.PhotoKey != nil && *reg.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*reg.PhotoKey)
		if url != "" {
			reg.PhotoURL = &url
		}
	}
}

func populateSeedPhotoURLs(seeds []models.BracketSeed, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for i := range seeds {
		populateRegistrationPhotoURL(seeds[i].Fighter, uploader)
	}
}
