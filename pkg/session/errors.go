package session

import (
	"errors"
)

var (
	ErrNoLessonSelected = errors.New("no lesson selected")
	ErrAlreadyRunning   = errors.New("session is already running")
	ErrNotRunning       = errors.New("session is not running")
	ErrNotConfirmed     = errors.New("stopping the session was not confirmed")
	ErrNotCompleted     = errors.New("lesson is not completed yet")
	ErrCompleted        = errors.New("lesson is completed; restart it first")
	ErrPaused           = errors.New("session is paused")
	ErrNoVoice          = errors.New("no such voice")
	ErrRunnerStopped    = errors.New("session runner is not running")
)
