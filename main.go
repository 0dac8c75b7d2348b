package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"

	"github.com/blaubaer/talk-practice/pkg/app"
	"github.com/blaubaer/talk-practice/pkg/common"
)

var version = "development"

func main() {
	wf := common.NewWriterFacade(os.Stderr)
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	a := app.NewApp(version)
	a.LogOutput = wf
	a.LogTail = common.NewLogTail(500, 4096)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := kingpin.New("talk-practice", "Reads the questions of a lesson aloud and gives you time to answer each of them.").
		Version(version)
	a.SetupConfiguration(cmd)

	cmd.Command("practice", "Practice a lesson.").
		Default().
		Action(func(*kingpin.ParseContext) error {
			if err := a.Initialize(); err != nil {
				return err
			}
			defer func() {
				if err := a.Dispose(); err != nil {
					log.WithError(err).
						Warn("Cannot dispose application.")
				}
			}()
			if err := a.Run(ctx); err != nil {
				return err
			}
			log.Info("Bye.")
			return nil
		})
	cmd.Command("lessons", "List all lessons of the lesson document.").
		Action(func(*kingpin.ParseContext) error {
			return a.PrintLessons(ctx, os.Stdout)
		})
	cmd.Command("voices", "List all English voices of the speech engine.").
		Action(func(*kingpin.ParseContext) error {
			return a.PrintVoices(ctx, os.Stdout)
		})

	cmd.Flag("log.level", "").
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Default("auto").
		SetValue(lv.Consumer.Formatter.ColorMode)

	kingpin.MustParse(cmd.Parse(os.Args[1:]))
}
