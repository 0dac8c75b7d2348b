package speech

import (
	"github.com/blaubaer/talk-practice/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type:         TypeDefault,
		SayBinary:    "say",
		EspeakBinary: "espeak-ng",
	}
}

type Configuration struct {
	Type Type `yaml:"type"`

	// Voice is the ID of the preferred voice. If it is not available the
	// first English voice is used.
	Voice string `yaml:"voice,omitempty"`
	// Speed is the preferred speech rate. Zero means the default of the
	// lessons' settings.
	Speed float64 `yaml:"speed,omitempty"`

	SayBinary    string `yaml:"sayBinary,omitempty"`
	EspeakBinary string `yaml:"espeakBinary,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("speech.type", "Engine used to read the questions aloud. Possible values: "+AllTypes.String()).
		Envar(common.Envar("speech.type")).
		SetValue(&this.Type)
	using.Flag("speech.voice", "ID of the voice to use. See the 'voices' command for all available ones.").
		Envar(common.Envar("speech.voice")).
		StringVar(&this.Voice)
	using.Flag("speech.speed", "Speech rate to start with; 1.0 is the normal speed.").
		Envar(common.Envar("speech.speed")).
		Float64Var(&this.Speed)
	using.Flag("speech.say.binary", "Binary of the macOS say command.").
		Envar(common.Envar("speech.say.binary")).
		StringVar(&this.SayBinary)
	using.Flag("speech.espeak.binary", "Binary of the eSpeak NG command.").
		Envar(common.Envar("speech.espeak.binary")).
		StringVar(&this.EspeakBinary)
}
