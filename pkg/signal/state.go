package signal

import (
	"fmt"
	"strings"

	"github.com/blaubaer/talk-practice/pkg/session"
)

type State uint8

const (
	StateOff       = State(0)
	StateSpeaking  = State(1)
	StateAnswering = State(2)
	StateWarning   = State(3)
	StatePaused    = State(4)
)

var (
	AllStates = States{
		StateOff,
		StateSpeaking,
		StateAnswering,
		StateWarning,
		StatePaused,
	}
)

// StateOf derives the state a signal should show for the given snapshot.
func StateOf(s session.Snapshot) State {
	switch {
	case !s.Running:
		return StateOff
	case s.Paused:
		return StatePaused
	case s.Phase == session.PhaseSpeaking:
		return StateSpeaking
	case s.Phase == session.PhaseAwaitingAnswer && s.Warning:
		return StateWarning
	case s.Phase == session.PhaseAwaitingAnswer:
		return StateAnswering
	default:
		return StateOff
	}
}

func (this *State) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "off", "idle":
		*this = StateOff
		return nil
	case "speaking":
		*this = StateSpeaking
		return nil
	case "answering":
		*this = StateAnswering
		return nil
	case "warning":
		*this = StateWarning
		return nil
	case "paused":
		*this = StatePaused
		return nil
	default:
		return fmt.Errorf("illegal-signal-state: %s", plain)
	}
}

func (this State) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-signal-state-%d", this)
	}
	return string(v)
}

func (this State) MarshalText() (text []byte, err error) {
	switch this {
	case StateOff:
		return []byte("off"), nil
	case StateSpeaking:
		return []byte("speaking"), nil
	case StateAnswering:
		return []byte("answering"), nil
	case StateWarning:
		return []byte("warning"), nil
	case StatePaused:
		return []byte("paused"), nil
	default:
		return nil, fmt.Errorf("illegal signal state: %v", uint8(this))
	}
}

func (this *State) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type States []State

func (this States) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this States) String() string {
	return strings.Join(this.Strings(), ",")
}
