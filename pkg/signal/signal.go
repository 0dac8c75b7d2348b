// Package signal mirrors the phase of a practice session to something
// outside the terminal, like a lamp next to the desk.
package signal

type Signal interface {
	// Ensure brings the signal into the state of the given context.
	Ensure(Context) error
	// Update refreshes what the signal knows about its targets.
	Update() error
	Dispose() error

	GetType() Type
}
