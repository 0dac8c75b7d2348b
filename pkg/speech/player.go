package speech

import (
	"context"
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"
)

// NewPlayer creates a Service which plays utterances using the given engine.
func NewPlayer(engine Engine) *Player {
	return &Player{engine: engine}
}

// Player ensures that only one utterance of its Engine is playing at any
// time.
type Player struct {
	engine Engine

	current *playback
	closed  bool
	mutex   sync.Mutex
}

type playback struct {
	process Process
	cancel  context.CancelFunc
}

func (this *Player) GetType() Type {
	return this.engine.GetType()
}

func (this *Player) Speak(ctx context.Context, u Utterance) <-chan error {
	result := make(chan error, 1)

	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.cancelCurrent()
	if this.closed {
		result <- ErrClosed
		return result
	}

	pCtx, cancel := context.WithCancel(ctx)
	process, err := this.engine.Start(pCtx, u)
	if err != nil {
		cancel()
		result <- fmt.Errorf("cannot start speech using %v: %w", this.engine.GetType(), err)
		return result
	}

	current := &playback{process, cancel}
	this.current = current

	log.With("engine", this.engine.GetType()).
		With("voice", u.Voice).
		With("rate", u.Rate).
		Debug("Speech started.")

	go func() {
		err := process.Wait()
		if pCtx.Err() != nil {
			err = ErrCanceled
		}
		cancel()

		this.mutex.Lock()
		if this.current == current {
			this.current = nil
		}
		this.mutex.Unlock()

		result <- err
	}()

	return result
}

func (this *Player) cancelCurrent() {
	if v := this.current; v != nil {
		v.cancel()
		this.current = nil
	}
}

func (this *Player) Pause() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if v := this.current; v != nil {
		return v.process.Pause()
	}
	return nil
}

func (this *Player) Resume() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if v := this.current; v != nil {
		return v.process.Resume()
	}
	return nil
}

func (this *Player) Cancel() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.cancelCurrent()
}

func (this *Player) Voices(ctx context.Context) (Voices, error) {
	return this.engine.Voices(ctx)
}

func (this *Player) Close() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.closed {
		return nil
	}
	this.closed = true
	this.cancelCurrent()
	return this.engine.Close()
}
