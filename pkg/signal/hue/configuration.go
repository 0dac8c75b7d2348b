package hue

import (
	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/signal"
)

func NewConfiguration() Configuration {
	return Configuration{
		Name: common.MustNewPattern("^Practice"),

		Speaking:  Color{Hue: 46920, Saturation: 254, Brightness: 254},
		Answering: Color{Hue: 25500, Saturation: 254, Brightness: 254},
		Warning:   Color{Hue: 5000, Saturation: 254, Brightness: 254},
		Paused:    Color{Hue: 0, Saturation: 0, Brightness: 80},
	}
}

type Configuration struct {
	Pair   bool   `yaml:"pair,omitempty"`
	Bridge string `yaml:"bridge,omitempty"`
	User   string `yaml:"user,omitempty"`

	Name  common.Pattern `yaml:"target"`
	Kinds Kinds          `yaml:"kinds,omitempty"`

	Speaking  Color `yaml:"speaking"`
	Answering Color `yaml:"answering"`
	Warning   Color `yaml:"warning"`
	Paused    Color `yaml:"paused"`
}

// ColorOf returns the color which represents the given state. ok is false
// for signal.StateOff.
func (this *Configuration) ColorOf(state signal.State) (_ Color, ok bool) {
	switch state {
	case signal.StateSpeaking:
		return this.Speaking, true
	case signal.StateAnswering:
		return this.Answering, true
	case signal.StateWarning:
		return this.Warning, true
	case signal.StatePaused:
		return this.Paused, true
	default:
		return Color{}, false
	}
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.hue.pair", "If true this application will pair again with an existing hue. This will be implicit enabled if this application is not already paired.").
		Envar(common.Envar("signal.hue.pair")).
		BoolVar(&this.Pair)
	using.Flag("signal.hue.bridge", "Usually the bridge is automatically detected. You can specify an explicit one if they are more than one. This is only required while pairing and will afterwards be ignored.").
		Envar(common.Envar("signal.hue.bridge")).
		StringVar(&this.Bridge)
	using.Flag("signal.hue.user", "Usually this is set while pairing and will then be persisted. If this set this will be used and not be persisted.").
		Envar(common.Envar("signal.hue.user")).
		StringVar(&this.User)
	using.Flag("signal.hue.name", "Name as regex of the lights/groups which should be handled by this app.").
		Envar(common.Envar("signal.hue.name")).
		SetValue(&this.Name)
	using.Flag("signal.hue.kind", "Kind(s) of what should be handled. Possible values: "+AllKinds.String()).
		Envar(common.Envar("signal.hue.kind")).
		SetValue(&this.Kinds)

	colorHelp := " Format: <hue>,<saturation>,<brightness>. The hue wraps between 0 and 65535 (both red, 25500 green, 46920 blue), saturation is 0 (white) to 254 and brightness 1 to 254."
	using.Flag("signal.hue.speaking", "Color while a question is read aloud."+colorHelp).
		Envar(common.Envar("signal.hue.speaking")).
		SetValue(&this.Speaking)
	using.Flag("signal.hue.answering", "Color while the answer countdown runs."+colorHelp).
		Envar(common.Envar("signal.hue.answering")).
		SetValue(&this.Answering)
	using.Flag("signal.hue.warning", "Color during the last seconds of the answer countdown."+colorHelp).
		Envar(common.Envar("signal.hue.warning")).
		SetValue(&this.Warning)
	using.Flag("signal.hue.paused", "Color while the session is paused."+colorHelp).
		Envar(common.Envar("signal.hue.paused")).
		SetValue(&this.Paused)
}
