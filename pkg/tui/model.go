// Package tui is the full-screen terminal front-end of a practice session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/session"
)

const (
	logTickInterval = 500 * time.Millisecond
	logLines        = 5
	maxLessonKeys   = 9
)

// Runner is the part of session.Runner used by the Model.
type Runner interface {
	Do(ctx context.Context, fn func(*session.Controller) error) error
	Reload(ctx context.Context) error
	Subscribe() <-chan session.Snapshot
}

// LogSource provides the latest lines of the log output.
type LogSource interface {
	Last(n int) []string
}

type Model struct {
	ctx       context.Context
	runner    Runner
	snapshots <-chan session.Snapshot
	logs      LogSource

	snapshot    session.Snapshot
	hasSnapshot bool
	confirmStop bool
	notice      error
	quitting    bool

	width  int
	height int

	keys     keyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model
}

// NewModel creates a Model which controls the given runner. logs can be
// nil; then no log lines are shown.
func NewModel(ctx context.Context, runner Runner, logs LogSource) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		ctx:       ctx,
		runner:    runner,
		snapshots: runner.Subscribe(),
		logs:      logs,
		keys:      newKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner:   sp,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForSnapshot(m.snapshots),
	}
	if m.logs != nil {
		cmds = append(cmds, logTick())
	}
	return tea.Batch(cmds...)
}

func waitForSnapshot(c <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-c
		if !ok {
			return runnerStoppedMsg{}
		}
		return snapshotMsg(s)
	}
}

func logTick() tea.Cmd {
	return tea.Tick(logTickInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(msg.Width-12, 60))
		return m, nil

	case snapshotMsg:
		m.snapshot = session.Snapshot(msg)
		m.hasSnapshot = true
		if !m.snapshot.Running {
			m.confirmStop = false
		}
		return m, waitForSnapshot(m.snapshots)

	case runnerStoppedMsg:
		m.quitting = true
		return m, tea.Quit

	case commandDoneMsg:
		if errors.Is(msg.err, session.ErrRunnerStopped) || common.IsCanceled(msg.err) {
			m.quitting = true
			return m, tea.Quit
		}
		if msg.err != nil {
			log.WithError(msg.err).
				With("command", msg.name).
				Debug("Command rejected.")
		}
		m.notice = msg.err
		return m, nil

	case logTickMsg:
		return m, logTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmStop {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmStop = false
			return m, m.do("stop", func(c *session.Controller) error {
				return c.Stop(true)
			})
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.confirmStop = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Lesson):
		n := int(msg.String()[0] - '1')
		if n < 0 || n >= len(m.snapshot.Lessons) || n >= maxLessonKeys {
			m.notice = fmt.Errorf("there is no lesson #%d", n+1)
			return m, nil
		}
		id := m.snapshot.Lessons[n].ID
		return m, m.do("selectLesson", func(c *session.Controller) error {
			return c.SelectLesson(id)
		})

	case key.Matches(msg, m.keys.Start):
		return m, m.do("start", func(c *session.Controller) error {
			return c.Start()
		})

	case key.Matches(msg, m.keys.Pause):
		return m, m.do("togglePause", func(c *session.Controller) error {
			return c.TogglePause()
		})

	case key.Matches(msg, m.keys.Stop):
		if !m.snapshot.Running {
			m.notice = session.ErrNotRunning
			return m, nil
		}
		m.confirmStop = true
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		return m, m.do("skip", func(c *session.Controller) error {
			return c.Skip()
		})

	case key.Matches(msg, m.keys.Restart):
		return m, m.do("restart", func(c *session.Controller) error {
			return c.Restart()
		})

	case key.Matches(msg, m.keys.NextVoice):
		return m, m.do("nextVoice", func(c *session.Controller) error {
			return c.CycleVoice(1)
		})

	case key.Matches(msg, m.keys.PrevVoice):
		return m, m.do("previousVoice", func(c *session.Controller) error {
			return c.CycleVoice(-1)
		})

	case key.Matches(msg, m.keys.Faster):
		return m, m.do("faster", func(c *session.Controller) error {
			c.StepSpeed(1)
			return nil
		})

	case key.Matches(msg, m.keys.Slower):
		return m, m.do("slower", func(c *session.Controller) error {
			c.StepSpeed(-1)
			return nil
		})

	case key.Matches(msg, m.keys.Reload):
		runner, ctx := m.runner, m.ctx
		return m, func() tea.Msg {
			return commandDoneMsg{"reload", runner.Reload(ctx)}
		}
	}

	return m, nil
}

// do executes fn on the goroutine of the runner. It must never be called
// directly from Update, because the runner might wait for the UI.
func (m Model) do(name string, fn func(*session.Controller) error) tea.Cmd {
	runner, ctx := m.runner, m.ctx
	return func() tea.Msg {
		return commandDoneMsg{name, runner.Do(ctx, fn)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Talk practice"))
	b.WriteString("\n\n")

	s := m.snapshot
	switch {
	case !m.hasSnapshot || (!s.ConfigurationLoaded && s.Error == ""):
		b.WriteString(m.spinner.View() + " Loading lessons...\n")
	case !s.ConfigurationLoaded:
		b.WriteString(errorStyle.Render("Lessons are not available: "+s.Error) + "\n")
		b.WriteString(infoStyle.Render("Press l to try again.") + "\n")
	default:
		b.WriteString(m.viewLessons())
		b.WriteString("\n\n")
		if m.confirmStop {
			b.WriteString(dialogStyle.Render("Stop the current lesson?\n\n" +
				"Press y to stop, n to continue."))
			b.WriteString("\n")
		} else {
			b.WriteString(m.viewSession())
		}
	}

	if v := m.notice; v != nil {
		b.WriteString("\n" + errorStyle.Render(v.Error()) + "\n")
	}

	b.WriteString("\n" + m.viewSettings() + "\n")

	if m.logs != nil {
		if lines := m.logs.Last(logLines); len(lines) > 0 {
			b.WriteString(logStyle.Render(strings.Join(lines, "\n")) + "\n")
		}
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) viewLessons() string {
	s := m.snapshot
	parts := make([]string, 0, len(s.Lessons))
	for i, l := range s.Lessons {
		label := l.DisplayName()
		if i < maxLessonKeys {
			label = fmt.Sprintf("[%d] %s", i+1, label)
		}
		if l.ID == s.LessonID {
			parts = append(parts, selectedLessonStyle.Render(label))
		} else {
			parts = append(parts, lessonStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewSession() string {
	s := m.snapshot
	var b strings.Builder

	status := statusStyle
	if s.Paused {
		status = pausedStyle
	}
	b.WriteString(status.Render(strings.ToUpper(s.Status()[:1])+s.Status()[1:]) + "\n")

	if !s.HasLesson() {
		return b.String()
	}

	if s.Phase == session.PhaseCompleted {
		b.WriteString("\n" + completedStyle.Render(fmt.Sprintf("%s completed", s.LessonTitle)) + "\n")
		b.WriteString(infoStyle.Render("Press r to restart or select another lesson.") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s · question %d of %d\n", s.LessonTitle, s.QuestionNumber(), s.Total))
	if s.Question != "" {
		b.WriteString(questionStyle.Render(s.Question) + "\n")
	}

	timer := timerStyle
	if s.Warning {
		timer = timerWarningStyle
	}
	b.WriteString(timer.Render(fmt.Sprintf("%d s", s.Remaining)) + "\n")

	if s.Running {
		b.WriteString(m.progress.ViewAs(s.Progress()) + "\n")
	}

	return b.String()
}

func (m Model) viewSettings() string {
	voice := "default voice"
	if v, ok := m.snapshot.SelectedVoice(); ok {
		voice = v.Label()
	}
	return infoStyle.Render(fmt.Sprintf("Voice: %s · Speed: %.1fx", voice, m.snapshot.Speed))
}
