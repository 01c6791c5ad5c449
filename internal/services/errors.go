package services

import "errors"

var (
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrPreferencesMissing   = errors.New("buddy preferences not set")
	ErrCandidateQueryFailed = errors.New("candidate query failed")
	ErrBuddyNotFound        = errors.New("buddy not found")
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrPreWorkoutMissing    = errors.New("no pre-workout state found")
	ErrGoalNotFound         = errors.New("mood goal not found")
	ErrNoMoodGoals          = errors.New("no mood goals found")
	ErrNoMoodEntries        = errors.New("no emotional states found")
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrNoSongsFound         = errors.New("no songs found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrStorageUnavailable   = errors.New("storage service is not configured")
)
