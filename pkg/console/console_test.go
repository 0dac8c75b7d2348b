package console

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/talk-practice/pkg/lesson"
	"github.com/blaubaer/talk-practice/pkg/session"
	"github.com/blaubaer/talk-practice/pkg/speech"
)

type silentSpeech struct{}

func (silentSpeech) Speak(context.Context, speech.Utterance) <-chan error {
	return make(chan error, 1)
}
func (silentSpeech) Pause() error                                 { return nil }
func (silentSpeech) Resume() error                                { return nil }
func (silentSpeech) Cancel()                                      {}
func (silentSpeech) Voices(context.Context) (speech.Voices, error) { return nil, nil }
func (silentSpeech) Close() error                                 { return nil }

type directRunner struct {
	controller *session.Controller
	reloads    int
	mutex      sync.Mutex
}

func (this *directRunner) Do(_ context.Context, fn func(*session.Controller) error) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return fn(this.controller)
}

func (this *directRunner) Reload(context.Context) error {
	this.reloads++
	return nil
}

func (this *directRunner) Snapshot(context.Context) (session.Snapshot, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.controller.Snapshot(), nil
}

func (this *directRunner) Subscribe() <-chan session.Snapshot {
	return make(chan session.Snapshot)
}

func newTestConsole(t *testing.T, answer bool) (*Console, *directRunner, *bytes.Buffer) {
	controller := session.NewController(silentSpeech{}, nil, nil)
	require.NoError(t, controller.LoadDocument(&lesson.Document{
		Lessons: lesson.Lessons{
			"1": {ID: "1", Title: "Greetings", Questions: []string{"How are you?", "Where are you from?"}},
			"2": {ID: "2", Questions: []string{"Why?"}},
		},
	}))
	controller.SetVoices(speech.Voices{
		{ID: "samantha", Name: "Samantha", Language: "en-US"},
		{ID: "daniel", Name: "Daniel", Language: "en-GB"},
	})

	runner := &directRunner{controller: controller}
	out := new(bytes.Buffer)
	instance := &Console{
		runner: runner,
		out:    out,
		confirm: func(string) (bool, error) {
			return answer, nil
		},
	}
	return instance, runner, out
}

func execute(t *testing.T, instance *Console, line string) error {
	t.Helper()
	quit, err := instance.execute(context.Background(), line)
	assert.False(t, quit)
	return err
}

func TestConsole_session(t *testing.T) {
	instance, runner, _ := newTestConsole(t, true)

	require.NoError(t, execute(t, instance, "1"))
	require.NoError(t, execute(t, instance, "start"))
	s, _ := runner.Snapshot(context.Background())
	assert.True(t, s.Running)
	assert.Equal(t, session.PhaseSpeaking, s.Phase)

	require.NoError(t, execute(t, instance, "pause"))
	assert.ErrorIs(t, execute(t, instance, "skip"), session.ErrPaused)
	require.NoError(t, execute(t, instance, "resume"))
	require.NoError(t, execute(t, instance, "skip"))
	s, _ = runner.Snapshot(context.Background())
	assert.Equal(t, 1, s.QuestionIndex)

	require.NoError(t, execute(t, instance, "stop"))
	s, _ = runner.Snapshot(context.Background())
	assert.False(t, s.Running)
	assert.Equal(t, 0, s.QuestionIndex)
}

func TestConsole_stop_notConfirmed(t *testing.T) {
	instance, runner, _ := newTestConsole(t, false)

	require.NoError(t, execute(t, instance, "select 1"))
	require.NoError(t, execute(t, instance, "start"))
	require.NoError(t, execute(t, instance, "stop"))

	s, _ := runner.Snapshot(context.Background())
	assert.True(t, s.Running)
}

func TestConsole_stop_notRunning(t *testing.T) {
	called := false
	instance, _, _ := newTestConsole(t, true)
	instance.confirm = func(string) (bool, error) {
		called = true
		return true, nil
	}

	assert.ErrorIs(t, execute(t, instance, "stop"), session.ErrNotRunning)
	assert.False(t, called)
}

func TestConsole_stop_confirmFails(t *testing.T) {
	instance, runner, _ := newTestConsole(t, true)
	instance.confirm = func(string) (bool, error) {
		return false, errors.New("expected")
	}

	require.NoError(t, execute(t, instance, "1"))
	require.NoError(t, execute(t, instance, "start"))
	assert.EqualError(t, execute(t, instance, "stop"), "expected")

	s, _ := runner.Snapshot(context.Background())
	assert.True(t, s.Running)
}

func TestConsole_selectUnknownLesson(t *testing.T) {
	instance, _, _ := newTestConsole(t, true)

	assert.ErrorIs(t, execute(t, instance, "9"), lesson.ErrConfigUnavailable)
}

func TestConsole_voiceAndSpeed(t *testing.T) {
	instance, runner, out := newTestConsole(t, true)

	require.NoError(t, execute(t, instance, "voice next"))
	require.NoError(t, execute(t, instance, "speed +"))
	s, _ := runner.Snapshot(context.Background())
	assert.Equal(t, "daniel", s.Voice)
	assert.InDelta(t, 1.1, s.Speed, 0.0001)

	require.NoError(t, execute(t, instance, "speed 5"))
	s, _ = runner.Snapshot(context.Background())
	assert.InDelta(t, 2.0, s.Speed, 0.0001)

	assert.ErrorIs(t, execute(t, instance, "voice unknown"), session.ErrNoVoice)
	assert.EqualError(t, execute(t, instance, "speed fast"), "illegal speed: fast")

	require.NoError(t, execute(t, instance, "voices"))
	assert.Contains(t, out.String(), "* daniel: Daniel (en-GB) [UK]")
	assert.Contains(t, out.String(), "  samantha: Samantha (en-US) [recommended]")
}

func TestConsole_lessons(t *testing.T) {
	instance, _, out := newTestConsole(t, true)

	require.NoError(t, execute(t, instance, "2"))
	require.NoError(t, execute(t, instance, "lessons"))

	assert.Equal(t, "  1: Greetings (2 questions)\n* 2: Lesson 2 (1 questions)\n", out.String())
}

func TestConsole_reloadAndUnknown(t *testing.T) {
	instance, runner, _ := newTestConsole(t, true)

	require.NoError(t, execute(t, instance, "reload"))
	assert.Equal(t, 1, runner.reloads)

	assert.EqualError(t, execute(t, instance, "dance"), `unknown command "dance"; type 'help' for all commands`)
	assert.NoError(t, execute(t, instance, "   "))
}

func TestConsole_unknownCommandSuggestion(t *testing.T) {
	instance, _, _ := newTestConsole(t, true)

	assert.EqualError(t, execute(t, instance, "strat"), `unknown command "strat"; did you mean "start"?`)
}

func TestConsole_quit(t *testing.T) {
	instance, _, _ := newTestConsole(t, true)

	quit, err := instance.execute(context.Background(), "quit")

	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestDescribe(t *testing.T) {
	idle := session.Snapshot{
		ConfigurationLoaded: true,
		Lessons:             []lesson.Lesson{{ID: "1"}},
		LessonID:            "1",
		LessonTitle:         "Greetings",
		Total:               2,
		Remaining:           50,
		Speed:               1,
	}
	speaking := idle
	speaking.RunID = "run"
	speaking.Running = true
	speaking.Phase = session.PhaseSpeaking
	speaking.Question = "How are you?"

	answering := speaking
	answering.Phase = session.PhaseAwaitingAnswer
	answering.Question = "How are you?"

	warning := answering
	warning.Remaining = 10
	warning.Warning = true

	completed := idle
	completed.RunID = "run"
	completed.QuestionIndex = 2
	completed.Phase = session.PhaseCompleted

	assert.Equal(t, []string{
		"1 lessons loaded. Type 'lessons' to list them.",
		"Lesson 1 selected: Greetings (2 questions).",
	}, describe(session.Snapshot{}, idle))
	assert.Equal(t, []string{
		"Lesson started.",
		"Question 1 of 2: How are you?",
	}, describe(idle, speaking))
	assert.Equal(t, []string{"Answer now, you have 50 s."}, describe(speaking, answering))
	assert.Equal(t, []string{"10 s left."}, describe(answering, warning))
	assert.Equal(t, []string{"Lesson completed. Type 'restart' to practice it again."}, describe(warning, completed))
	assert.Equal(t, []string{"Lesson stopped."}, describe(warning, idle))
	assert.Empty(t, describe(idle, idle))
}

func TestDescribe_pauseAndError(t *testing.T) {
	running := session.Snapshot{ConfigurationLoaded: true, Running: true, Phase: session.PhaseAwaitingAnswer, Speed: 1}
	paused := running
	paused.Paused = true
	faster := running
	faster.Speed = 1.2

	assert.Equal(t, []string{"Paused. Type 'resume' to continue."}, describe(running, paused))
	assert.Equal(t, []string{"Resumed."}, describe(paused, running))
	assert.Equal(t, []string{"Speed: 1.2x"}, describe(running, faster))
	assert.Equal(t, []string{"Lessons are not available: boom"}, describe(session.Snapshot{}, session.Snapshot{Error: "boom"}))
}
