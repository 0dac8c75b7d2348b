package lesson

import (
	"time"

	"github.com/blaubaer/talk-practice/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Source:  DefaultSource,
		Timeout: 30 * time.Second,
	}
}

type Configuration struct {
	// Source is the path or http(s) URL of the lesson document.
	Source  string        `yaml:"source,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("lessons", "File or http(s) URL of the lesson document (JSON, YAML or TOML).").
		Envar(common.Envar("lessons")).
		StringVar(&this.Source)
	using.Flag("lessons.timeout", "How long to wait for a lesson document served via http(s).").
		Envar(common.Envar("lessons.timeout")).
		DurationVar(&this.Timeout)
}

// NewSource creates the Source described by this configuration.
func (this Configuration) NewSource() Source {
	return Source{
		Location: this.Source,
		Timeout:  this.Timeout,
	}
}
