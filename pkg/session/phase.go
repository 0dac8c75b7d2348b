package session

import (
	"fmt"
	"strings"
)

type Phase uint8

const (
	PhaseIdle           = Phase(0)
	PhaseSpeaking       = Phase(1)
	PhaseAwaitingAnswer = Phase(2)
	PhaseCompleted      = Phase(3)
)

var AllPhases = Phases{
	PhaseIdle,
	PhaseSpeaking,
	PhaseAwaitingAnswer,
	PhaseCompleted,
}

func (this *Phase) Set(plain string) error {
	switch strings.ToLower(plain) {
	case "idle":
		*this = PhaseIdle
		return nil
	case "speaking":
		*this = PhaseSpeaking
		return nil
	case "awaitinganswer", "awaiting-answer", "awaiting_answer":
		*this = PhaseAwaitingAnswer
		return nil
	case "completed":
		*this = PhaseCompleted
		return nil
	default:
		return fmt.Errorf("illegal-phase: %s", plain)
	}
}

func (this Phase) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-phase-%d", this)
	}
	return string(v)
}

func (this Phase) MarshalText() (text []byte, err error) {
	switch this {
	case PhaseIdle:
		return []byte("idle"), nil
	case PhaseSpeaking:
		return []byte("speaking"), nil
	case PhaseAwaitingAnswer:
		return []byte("awaitingAnswer"), nil
	case PhaseCompleted:
		return []byte("completed"), nil
	default:
		return nil, fmt.Errorf("illegal phase: %d", this)
	}
}

func (this *Phase) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Phases []Phase

func (this Phases) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Phases) String() string {
	return strings.Join(this.Strings(), ",")
}
