package app

import (
	"fmt"
	"strings"
)

// Ui is the front-end the user controls the session with.
type Ui uint8

const (
	UiTerminal = Ui(0)
	UiConsole  = Ui(1)

	UiDefault = UiTerminal
)

var (
	AllUis = Uis{
		UiTerminal,
		UiConsole,
	}
)

func (this *Ui) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "tui", "terminal", "":
		*this = UiTerminal
		return nil
	case "console", "cli":
		*this = UiConsole
		return nil
	default:
		return fmt.Errorf("illegal-ui: %s", plain)
	}
}

func (this Ui) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-ui-%d", this)
	}
	return string(v)
}

func (this Ui) MarshalText() (text []byte, err error) {
	switch this {
	case UiTerminal:
		return []byte("tui"), nil
	case UiConsole:
		return []byte("console"), nil
	default:
		return nil, fmt.Errorf("illegal ui: %v", uint8(this))
	}
}

func (this *Ui) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Uis []Ui

func (this Uis) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Uis) String() string {
	return strings.Join(this.Strings(), ",")
}
