package domain

import "errors"

var (
	// ErrInvalidQuestionConfig is returned for malformed generator input
	// (bad option count, missing required item fields).
	ErrInvalidQuestionConfig = errors.New("invalid question config")
	// ErrUnsupportedGameMode is returned for an unknown game mode string.
	ErrUnsupportedGameMode = errors.New("unsupported game mode")
	// ErrUnknownCategory indicates a category with no backing pool.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrPoolNotFound indicates the pool content could not be loaded.
	ErrPoolNotFound = errors.New("question pool not found")
	// ErrWorkerNotInitialized is returned when a request arrives before pools are loaded.
	ErrWorkerNotInitialized = errors.New("worker not initialized")
	// ErrUnknownRequestType indicates a request type with no registered handler.
	ErrUnknownRequestType = errors.New("unknown request type")
	// ErrAnswerCountMismatch is returned when answers and questions differ in length.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	// ErrSessionNotFound is returned when a game session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionFinished is returned when answers arrive after scoring.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrLanguageNotFound indicates no catalog is loaded for a language code.
	ErrLanguageNotFound = errors.New("language not found")
)
