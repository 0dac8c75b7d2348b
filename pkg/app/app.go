package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"dario.cat/mergo"
	log "github.com/echocat/slf4g"
	"golang.org/x/sync/errgroup"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/console"
	"github.com/blaubaer/talk-practice/pkg/observe"
	"github.com/blaubaer/talk-practice/pkg/session"
	"github.com/blaubaer/talk-practice/pkg/signal/facade"
	"github.com/blaubaer/talk-practice/pkg/speech"
	"github.com/blaubaer/talk-practice/pkg/tui"
)

func NewApp(version string) *App {
	return &App{
		Version: version,
		config:  NewConfiguration(),
	}
}

type App struct {
	Signal            facade.Facade
	Metrics           observe.Provider
	ConfigurationFile string
	Version           string

	// LogOutput receives all log output; while the terminal UI is shown it
	// is redirected into LogTail.
	LogOutput *common.WriterFacade
	LogTail   *common.LogTail

	configFromFlags Configuration
	config          Configuration
	configLoaded    bool

	speech     *speech.Player
	controller *session.Controller
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		Envar(common.Envar("configuration")).
		StringVar(&this.ConfigurationFile)
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

// loadConfiguration reads the configuration file and merges the flags
// over it.
func (this *App) loadConfiguration() error {
	if this.configLoaded {
		return nil
	}
	if err := this.config.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	if err := mergo.Merge(&this.config, this.configFromFlags, mergo.WithOverride); err != nil {
		return fmt.Errorf("cannot merge flags into configuration: %w", err)
	}
	this.configLoaded = true
	return nil
}

func (this *App) Initialize() (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.loadConfiguration(); err != nil {
		return err
	}

	if err := this.Metrics.Initialize(&this.config.Metrics, this.Version); err != nil {
		return err
	}

	player, err := speech.New(&this.config.Speech)
	if err != nil {
		return err
	}
	this.speech = player

	if err := this.Signal.Initialize(&this.config.Signal, this.alwaysSaveConf); err != nil {
		return err
	}

	this.controller = session.NewController(player, session.SystemClock, observe.DefaultMetrics())
	if v := this.config.Speech.Voice; v != "" {
		this.controller.PreferVoice(v)
	}
	if v := this.config.Speech.Speed; v > 0 {
		this.controller.SetSpeed(v)
	}

	if err := this.saveConf(false); err != nil {
		return err
	}

	success = true
	return nil
}

// Run drives a practice session with the configured front-end until the
// user quits or ctx is done.
func (this *App) Run(ctx context.Context) error {
	if this.controller == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := session.NewRunner(this.controller, this.config.Lessons.NewSource())
	snapshots := runner.Subscribe()

	var g errgroup.Group
	g.Go(func() error {
		return runner.Run(ctx)
	})
	g.Go(func() error {
		this.Signal.Follow(ctx, snapshots)
		return nil
	})
	g.Go(func() error {
		this.refreshLoop(ctx, runner)
		return nil
	})

	err := this.runUi(ctx, runner)
	cancel()
	return errors.Join(err, g.Wait())
}

func (this *App) runUi(ctx context.Context, runner *session.Runner) error {
	switch this.config.Ui {
	case UiConsole:
		return console.Run(ctx, runner)
	case UiTerminal:
		var logs tui.LogSource
		if tail := this.LogTail; tail != nil {
			logs = tail
			if out := this.LogOutput; out != nil {
				previous := out.Set([]io.Writer{tail})
				// Everything logged while the UI was shown is written out again.
				defer out.Set(previous, func(_, next []io.Writer) {
					for _, w := range next {
						_, _ = tail.WriteTo(w)
					}
				})
			}
		}
		return tui.Run(ctx, runner, logs)
	default:
		return fmt.Errorf("unsupported ui: %v", this.config.Ui)
	}
}

func (this *App) refreshLoop(ctx context.Context, runner *session.Runner) {
	interval := this.config.RefreshInterval
	if interval <= 0 {
		interval = NewConfiguration().RefreshInterval
	}
	for {
		this.refreshVoices(ctx, runner)

		log.With("interval", interval).
			Debug("Wait until the next refresh...")
		select {
		case <-ctx.Done():
			log.Debug("Refresh loop interrupted.")
			return
		case <-time.After(interval):
		}

		if err := this.Signal.Update(); err != nil {
			log.WithError(err).
				Warn("Cannot update signal.")
		}
	}
}

func (this *App) refreshVoices(ctx context.Context, runner *session.Runner) {
	voices, err := this.speech.Voices(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.WithError(err).
				Warn("Cannot retrieve available voices.")
		}
		return
	}
	if err := runner.Do(ctx, func(c *session.Controller) error {
		c.SetVoices(voices)
		return nil
	}); err != nil && ctx.Err() == nil {
		log.WithError(err).
			Warn("Cannot apply available voices.")
	}
}

// PrintLessons writes all lessons of the configured lesson document to w.
func (this *App) PrintLessons(ctx context.Context, w io.Writer) error {
	if err := this.loadConfiguration(); err != nil {
		return err
	}
	doc, err := this.config.Lessons.NewSource().Load(ctx)
	if err != nil {
		return err
	}
	settings, err := doc.EffectiveSettings()
	if err != nil {
		return err
	}
	for _, id := range doc.IDs() {
		l, _ := doc.Lesson(id)
		if _, err := fmt.Fprintf(w, "%s: %s (%d questions)\n", id, l.DisplayName(), l.Len()); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "Answer time: %d s, speed: %.1fx (%.1fx - %.1fx)\n",
		settings.TimerDuration, settings.DefaultSpeed, settings.MinSpeed, settings.MaxSpeed)
	return err
}

// PrintVoices writes all English voices of the configured speech engine
// to w.
func (this *App) PrintVoices(ctx context.Context, w io.Writer) error {
	if err := this.loadConfiguration(); err != nil {
		return err
	}
	player, err := speech.New(&this.config.Speech)
	if err != nil {
		return err
	}
	defer func() { _ = player.Close() }()

	voices, err := player.Voices(ctx)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Engine: %v\n", player.GetType()); err != nil {
		return err
	}
	for _, v := range voices.English() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", v.ID, v.Label()); err != nil {
			return err
		}
	}
	return nil
}

func (this *App) alwaysSaveConf() error {
	return this.saveConf(true)
}

func (this *App) saveConf(always bool) error {
	if this.config.PreventAutoSave {
		log.Debug("Automatically save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
			// Ok, we should save...
		} else if err != nil {
			return err
		} else {
			// Does exist, skip...
			return nil
		}
	}

	if err := this.config.saveToFile(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}

func (this *App) Dispose() (rErr error) {
	defer func() {
		if err := this.Metrics.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	defer func() {
		if v := this.speech; v != nil {
			if err := v.Close(); err != nil && rErr == nil {
				rErr = err
			}
			this.speech = nil
		}
	}()

	return this.Signal.Dispose()
}
