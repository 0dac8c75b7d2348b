package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/lesson"
	"github.com/blaubaer/talk-practice/pkg/observe"
	"github.com/blaubaer/talk-practice/pkg/signal/facade"
	"github.com/blaubaer/talk-practice/pkg/speech"
)

const appName = "talk-practice"

func NewConfiguration() Configuration {
	return Configuration{
		Lessons: lesson.NewConfiguration(),
		Speech:  speech.NewConfiguration(),
		Signal:  facade.NewConfiguration(),
		Metrics: observe.NewConfiguration(),

		Ui:              UiDefault,
		RefreshInterval: 5 * time.Minute,
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	Lessons lesson.Configuration  `yaml:"lessons"`
	Speech  speech.Configuration  `yaml:"speech"`
	Signal  facade.Configuration  `yaml:"signal,omitempty"`
	Metrics observe.Configuration `yaml:"metrics,omitempty"`

	Ui              Ui            `yaml:"ui"`
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		Envar(common.Envar("preventAutoSave")).
		BoolVar(&this.PreventAutoSave)
	using.Flag("ui", "Front-end to use. All possible values: "+AllUis.String()).
		Envar(common.Envar("ui")).
		SetValue(&this.Ui)
	using.Flag("refreshInterval", "How often the available voices and the signal should be refreshed.").
		Envar(common.Envar("refreshInterval")).
		DurationVar(&this.RefreshInterval)

	this.Lessons.SetupConfiguration(using)
	this.Speech.SetupConfiguration(using)
	this.Signal.SetupConfiguration(using)
	this.Metrics.SetupConfiguration(using)
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}

func (this *Configuration) saveTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(this); err != nil {
		return err
	}
	return enc.Close()
}

func (this *Configuration) saveToFile(fn string) error {
	_ = os.MkdirAll(filepath.Dir(fn), 0700)

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.saveTo(f); err != nil {
		return fmt.Errorf("cannot write file %q: %w", fn, err)
	}

	return nil
}

func defaultConfigurationFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName, "configuration.yml")
	}
	return "configuration.yml"
}
