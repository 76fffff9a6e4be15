package domain

import "errors"

// Sentinel errors shared by services and adapters. Callers wrap them with
// context and match with errors.Is.
var (
	// ErrValidation marks missing or malformed user input
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a duplicate project name
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a missing project or artwork
	ErrNotFound = errors.New("not found")

	// ErrNoActiveProject is returned when an operation needs an active project and none is selected
	ErrNoActiveProject = errors.New("no active project")

	// ErrEmptyProject aborts an export of a list without artworks
	ErrEmptyProject = errors.New("project has no artworks")

	// ErrLetterhead aborts an export when the letterhead image cannot be loaded
	ErrLetterhead = errors.New("letterhead unavailable")

	// ErrImageDecode is returned when raw image bytes cannot be decoded
	ErrImageDecode = errors.New("image could not be decoded")

	// ErrImageData is returned when a stored image data URL is malformed
	ErrImageData = errors.New("invalid image data")

	// ErrUnknownSetting is returned for an unrecognized settings key
	ErrUnknownSetting = errors.New("unknown setting")
)
