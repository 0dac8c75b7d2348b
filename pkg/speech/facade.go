package speech

import (
	"errors"
	"fmt"

	log "github.com/echocat/slf4g"
)

// New creates the Player for the engine selected by the configuration. In
// case of TypeAuto the first engine available on this host is used.
func New(conf *Configuration) (*Player, error) {
	if conf.Type != TypeAuto {
		engine, err := newEngine(conf.Type, conf)
		if err != nil {
			return nil, err
		}
		return NewPlayer(engine), nil
	}

	var errs []error
	for _, t := range autoCandidates {
		engine, err := newEngine(t, conf)
		if errors.Is(err, ErrUnavailable) {
			log.With("engine", t).
				WithError(err).
				Debug("Speech engine not available; trying next one...")
			errs = append(errs, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if t == TypeSilent {
			log.Warn("No speech engine available on this host; questions will only be shown.")
		}
		return NewPlayer(engine), nil
	}
	return nil, fmt.Errorf("no speech engine available: %w", errors.Join(errs...))
}

func newEngine(t Type, conf *Configuration) (Engine, error) {
	switch t {
	case TypeSay:
		result := newSayEngine(conf.SayBinary)
		if err := result.available(); err != nil {
			return nil, err
		}
		return result, nil
	case TypeEspeak:
		result := newEspeakEngine(conf.EspeakBinary)
		if err := result.available(); err != nil {
			return nil, err
		}
		return result, nil
	case TypeSapi:
		return newSapiEngine()
	case TypeSilent:
		return NewSilentEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported speech type: %v", t)
	}
}
