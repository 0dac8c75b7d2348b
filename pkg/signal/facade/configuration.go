package facade

import (
	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/signal"
	"github.com/blaubaer/talk-practice/pkg/signal/homeassistant"
	"github.com/blaubaer/talk-practice/pkg/signal/hue"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type:          signal.TypeDefault,
		Hue:           hue.NewConfiguration(),
		HomeAssistant: homeassistant.NewConfiguration(),
	}
}

type Configuration struct {
	Type          signal.Type                 `yaml:"type"`
	Hue           hue.Configuration           `yaml:"hue,omitempty"`
	HomeAssistant homeassistant.Configuration `yaml:"homeAssistant,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal", "Signal which shows the phase of the session. All possible values: "+signal.AllTypes.String()).
		Envar(common.Envar("signal")).
		SetValue(&this.Type)

	this.Hue.SetupConfiguration(using)
	this.HomeAssistant.SetupConfiguration(using)
}
