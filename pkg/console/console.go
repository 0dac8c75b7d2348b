// Package console is a line oriented front-end of a practice session for
// terminals which cannot show the full-screen UI.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/session"
)

const prompt = "practice> "

// Runner is the part of session.Runner used by the Console.
type Runner interface {
	Do(ctx context.Context, fn func(*session.Controller) error) error
	Reload(ctx context.Context) error
	Snapshot(ctx context.Context) (session.Snapshot, error)
	Subscribe() <-chan session.Snapshot
}

type Console struct {
	runner Runner
	out    io.Writer
	// confirm asks the user a yes/no question.
	confirm func(question string) (bool, error)
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("lessons"),
	readline.PcItem("select"),
	readline.PcItem("start"),
	readline.PcItem("pause"),
	readline.PcItem("resume"),
	readline.PcItem("skip"),
	readline.PcItem("stop"),
	readline.PcItem("restart"),
	readline.PcItem("voices"),
	readline.PcItem("voice", readline.PcItem("next"), readline.PcItem("previous")),
	readline.PcItem("speed", readline.PcItem("+"), readline.PcItem("-")),
	readline.PcItem("reload"),
	readline.PcItem("status"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// Run reads commands from the terminal until the user quits, ctx is done or
// the runner stopped. Changes of the session are printed as they happen.
func Run(ctx context.Context, runner Runner) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("cannot open console: %w", err)
	}
	defer func() { _ = rl.Close() }()

	instance := &Console{
		runner: runner,
		out:    rl.Stdout(),
		confirm: func(question string) (bool, error) {
			return common.Confirm(rl, question)
		},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		instance.follow(ctx, runner.Subscribe())
		// Unblocks the pending Readline.
		_ = rl.Close()
	}()

	instance.printf("Type 'help' for all commands.\n")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("cannot read command: %w", err)
		}

		quit, err := instance.execute(ctx, line)
		if errors.Is(err, session.ErrRunnerStopped) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			instance.printf("%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// follow prints what happens in the session until the channel is closed or
// ctx is done.
func (this *Console) follow(ctx context.Context, snapshots <-chan session.Snapshot) {
	var previous session.Snapshot
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-snapshots:
			if !ok {
				return
			}
			for _, line := range describe(previous, s) {
				this.printf("%s\n", line)
			}
			previous = s
		}
	}
}

func (this *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(this.out, format, args...)
}

func (this *Console) do(ctx context.Context, fn func(*session.Controller) error) (bool, error) {
	return false, this.runner.Do(ctx, fn)
}

// execute runs one command line. quit reports whether the user wants to
// leave.
func (this *Console) execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	// A plain number selects the lesson.
	if _, err := strconv.Atoi(command); err == nil {
		args = []string{command}
		command = "select"
	}

	switch command {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		this.printf("%s", helpText)
		return false, nil

	case "lessons":
		s, err := this.runner.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		this.printLessons(s)
		return false, nil

	case "status":
		s, err := this.runner.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		this.printStatus(s)
		return false, nil

	case "voices":
		s, err := this.runner.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		this.printVoices(s)
		return false, nil

	case "select":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: select <lesson>")
		}
		return this.do(ctx, func(c *session.Controller) error {
			return c.SelectLesson(args[0])
		})

	case "start":
		return this.do(ctx, func(c *session.Controller) error {
			return c.Start()
		})

	case "pause":
		return this.do(ctx, func(c *session.Controller) error {
			return c.Pause()
		})

	case "resume":
		return this.do(ctx, func(c *session.Controller) error {
			return c.Resume()
		})

	case "skip", "next":
		return this.do(ctx, func(c *session.Controller) error {
			return c.Skip()
		})

	case "stop":
		return false, this.stop(ctx)

	case "restart":
		return this.do(ctx, func(c *session.Controller) error {
			return c.Restart()
		})

	case "voice":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: voice next|previous|<id>")
		}
		return this.do(ctx, func(c *session.Controller) error {
			switch args[0] {
			case "next", "+":
				return c.CycleVoice(1)
			case "previous", "prev", "-":
				return c.CycleVoice(-1)
			default:
				return c.SelectVoice(args[0])
			}
		})

	case "speed":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: speed +|-|<rate>")
		}
		switch args[0] {
		case "+":
			return this.do(ctx, func(c *session.Controller) error {
				c.StepSpeed(1)
				return nil
			})
		case "-":
			return this.do(ctx, func(c *session.Controller) error {
				c.StepSpeed(-1)
				return nil
			})
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return false, fmt.Errorf("illegal speed: %s", args[0])
		}
		return this.do(ctx, func(c *session.Controller) error {
			c.SetSpeed(v)
			return nil
		})

	case "reload":
		return false, this.runner.Reload(ctx)

	default:
		if v := suggest(command); v != "" {
			return false, fmt.Errorf("unknown command %q; did you mean %q?", command, v)
		}
		return false, fmt.Errorf("unknown command %q; type 'help' for all commands", command)
	}
}

var commands = []string{
	"lessons", "select", "start", "pause", "resume", "skip", "stop", "restart",
	"voices", "voice", "speed", "reload", "status", "help", "quit",
}

// suggest returns the command which is most similar to the given unknown
// one or an empty string if none is similar enough.
func suggest(unknown string) (result string) {
	best := 0.85
	for _, candidate := range commands {
		if score := matchr.JaroWinkler(unknown, candidate, false); score >= best {
			best, result = score, candidate
		}
	}
	return result
}

func (this *Console) stop(ctx context.Context) error {
	s, err := this.runner.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !s.Running {
		return session.ErrNotRunning
	}

	confirmed, err := this.confirm("Stop the current lesson?")
	if err != nil {
		return err
	}
	err = this.runner.Do(ctx, func(c *session.Controller) error {
		return c.Stop(confirmed)
	})
	if errors.Is(err, session.ErrNotConfirmed) {
		log.Debug("Stop was not confirmed; the session continues.")
		return nil
	}
	return err
}

func (this *Console) printLessons(s session.Snapshot) {
	if !s.ConfigurationLoaded {
		this.printf("%s\n", s.Status())
		return
	}
	for _, l := range s.Lessons {
		marker := " "
		if l.ID == s.LessonID {
			marker = "*"
		}
		this.printf("%s %s: %s (%d questions)\n", marker, l.ID, l.DisplayName(), l.Len())
	}
}

func (this *Console) printVoices(s session.Snapshot) {
	if len(s.Voices) == 0 {
		this.printf("No English voices available.\n")
		return
	}
	for _, v := range s.Voices {
		marker := " "
		if v.ID == s.Voice {
			marker = "*"
		}
		this.printf("%s %s: %s\n", marker, v.ID, v.Label())
	}
}

func (this *Console) printStatus(s session.Snapshot) {
	this.printf("Status: %s\n", s.Status())
	if s.HasLesson() {
		this.printf("Lesson: %s, question %d of %d, %d s remaining\n", s.LessonTitle, s.QuestionNumber(), s.Total, s.Remaining)
	}
	voice := "default"
	if v, ok := s.SelectedVoice(); ok {
		voice = v.Label()
	}
	this.printf("Voice: %s, speed: %.1fx\n", voice, s.Speed)
}

const helpText = `Commands:
  lessons              list all lessons
  <n> | select <n>     select lesson n
  start                start the selected lesson
  pause | resume       pause or resume the session
  skip                 continue with the next question
  stop                 stop the session (asks for confirmation)
  restart              restart a completed lesson
  voices               list all voices
  voice next|previous|<id>
  speed +|-|<rate>
  reload               load the lessons again
  status               show the current state
  quit                 leave
`
