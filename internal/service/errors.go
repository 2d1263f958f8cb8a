package service

import (
	"github.com/pkg/errors"

	"clubhub/internal/repo"
)

var (
	ErrAlreadyRegistered = errors.New("you have already registered for this event")
	ErrAlreadySubmitted  = errors.New("you have already submitted to this event")
	ErrUnknownKind       = errors.New("unknown collection")
)

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrEventNotFound) ||
		errors.Is(err, repo.ErrRegistrationNotFound) ||
		errors.Is(err, repo.ErrSubmissionNotFound) ||
		errors.Is(err, repo.ErrUserNotFound) ||
		errors.Is(err, repo.ErrDocumentNotFound) ||
		errors.Is(err, repo.ErrSettingsNotFound)
}
