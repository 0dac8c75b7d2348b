package facade

import (
	"context"
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/session"
	"github.com/blaubaer/talk-practice/pkg/signal"
	"github.com/blaubaer/talk-practice/pkg/signal/homeassistant"
	"github.com/blaubaer/talk-practice/pkg/signal/hue"
)

// Facade delegates to the Signal selected by the Configuration. With
// signal.TypeNone every operation does nothing.
type Facade struct {
	signal.Signal

	lock sync.RWMutex
}

func (this *Facade) Ensure(c signal.Context) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Signal; v != nil {
		return v.Ensure(c)
	}
	return nil
}

func (this *Facade) Update() error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Signal; v != nil {
		return v.Update()
	}
	return nil
}

func (this *Facade) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Signal != nil {
		return nil
	}

	switch conf.Type {
	case signal.TypeNone:
		return nil
	case signal.TypeHue:
		var buf hue.Hue
		if err := buf.Initialize(&conf.Hue, saveConfFunc); err != nil {
			return err
		}
		this.Signal = &buf
	case signal.TypeHomeAssistant:
		var buf homeassistant.Homeassistant
		if err := buf.Initialize(&conf.HomeAssistant, saveConfFunc); err != nil {
			return err
		}
		this.Signal = &buf
	default:
		return fmt.Errorf("unsupported signal type: %v", conf.Type)
	}

	return nil
}

// Follow ensures the state of every received snapshot until the channel is
// closed or ctx is done. Snapshots which arrive while a previous one is
// still ensured are skipped in favor of the latest. At the end the signal
// is switched off.
func (this *Facade) Follow(ctx context.Context, snapshots <-chan session.Snapshot) {
	defer func() {
		if err := this.Ensure(signal.NewContext(session.Snapshot{})); err != nil {
			log.WithError(err).
				Warn("Cannot switch signal off.")
		}
	}()

	var last *signal.State
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-snapshots:
			if !ok {
				return
			}
			sCtx := signal.NewContext(s)
			if state := sCtx.State(); last == nil || *last != state {
				log.With("state", state).
					Debug("Signal state change detected.")
				last = &state
			}
			if err := this.Ensure(sCtx); err != nil {
				log.WithError(err).
					Warn("It was not possible to ensure signal state.")
			}
		}
	}
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Signal = nil
	}()

	if v := this.Signal; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetType() signal.Type {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Signal; v != nil {
		return v.GetType()
	}

	return signal.TypeNone
}
