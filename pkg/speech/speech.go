// Package speech reads text aloud. A Service plays at most one utterance at
// a time; starting a new one cancels the previous.
package speech

import (
	"context"
	"errors"
)

var (
	ErrCanceled         = errors.New("speech canceled")
	ErrPauseUnsupported = errors.New("pausing speech is not supported by this engine")
	ErrUnavailable      = errors.New("speech engine unavailable")
	ErrClosed           = errors.New("speech service closed")
)

type Utterance struct {
	Text string
	// Voice is the Voice.ID to use; empty selects the engine default.
	Voice string
	// Rate is the speech rate multiplier, 1.0 is normal speed.
	Rate float64
}

type Service interface {
	// Speak starts reading the utterance and cancels any utterance still
	// playing. The returned channel receives exactly one value: nil on
	// completion, otherwise the reason why it did not complete.
	Speak(ctx context.Context, u Utterance) <-chan error

	// Pause suspends the current utterance. It can be continued with
	// Resume. Without a current utterance this does nothing.
	Pause() error
	Resume() error

	// Cancel stops the current utterance immediately. It cannot be resumed.
	Cancel()

	// Voices returns all voices currently offered by the engine.
	Voices(ctx context.Context) (Voices, error)

	Close() error
}

// Engine is the backend of a Player.
type Engine interface {
	Start(ctx context.Context, u Utterance) (Process, error)
	Voices(ctx context.Context) (Voices, error)
	GetType() Type
	Close() error
}

// Process is one utterance started by an Engine.
type Process interface {
	// Wait blocks until the utterance ended. It has to return once the
	// context given to Engine.Start is done.
	Wait() error
	Pause() error
	Resume() error
}
