package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blaubaer/talk-practice/pkg/lesson"
	"github.com/blaubaer/talk-practice/pkg/speech"
)

func newDocument(timerDuration int, questions ...string) *lesson.Document {
	return &lesson.Document{
		Lessons: lesson.Lessons{
			"1": {ID: "1", Title: "Greetings", Questions: questions},
			"2": {ID: "2", Questions: []string{"Only one?"}},
		},
		Settings: &lesson.Settings{TimerDuration: timerDuration},
	}
}

type fakeSpeech struct {
	spoken   []speech.Utterance
	current  chan error
	paused   bool
	canceled int
	mutex    sync.Mutex
}

func (this *fakeSpeech) Speak(_ context.Context, u speech.Utterance) <-chan error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.spoken = append(this.spoken, u)
	this.current = make(chan error, 1)
	this.paused = false
	return this.current
}

// finish delivers the result of the latest utterance.
func (this *fakeSpeech) finish(err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.current <- err
}

func (this *fakeSpeech) last() speech.Utterance {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.spoken[len(this.spoken)-1]
}

func (this *fakeSpeech) count() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return len(this.spoken)
}

func (this *fakeSpeech) isPaused() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.paused
}

func (this *fakeSpeech) Pause() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.paused = true
	return nil
}

func (this *fakeSpeech) Resume() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.paused = false
	return nil
}

func (this *fakeSpeech) Cancel() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.canceled++
}

func (this *fakeSpeech) Voices(context.Context) (speech.Voices, error) {
	return nil, nil
}

func (this *fakeSpeech) Close() error {
	return nil
}

type manualClock struct {
	now     time.Time
	tickers []*manualTicker
	mutex   sync.Mutex
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (this *manualClock) Now() time.Time {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.now
}

func (this *manualClock) NewTicker(time.Duration) Ticker {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	result := &manualTicker{c: make(chan time.Time)}
	this.tickers = append(this.tickers, result)
	return result
}

// latest returns the most recently created ticker which is not stopped.
func (this *manualClock) latest(t *testing.T) *manualTicker {
	t.Helper()
	this.mutex.Lock()
	defer this.mutex.Unlock()

	require.NotEmpty(t, this.tickers, "no ticker was ever created")
	result := this.tickers[len(this.tickers)-1]
	require.False(t, result.isStopped(), "latest ticker is stopped")
	return result
}

func (this *manualClock) active() (result int) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	for _, v := range this.tickers {
		if !v.isStopped() {
			result++
		}
	}
	return result
}

type manualTicker struct {
	c       chan time.Time
	stopped bool
	mutex   sync.Mutex
}

func (this *manualTicker) C() <-chan time.Time {
	return this.c
}

func (this *manualTicker) Stop() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.stopped = true
}

func (this *manualTicker) isStopped() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.stopped
}

// fire delivers one tick; it blocks until somebody received it.
func (this *manualTicker) fire(t *testing.T) {
	t.Helper()
	select {
	case this.c <- time.Time{}:
	case <-time.After(5 * time.Second):
		t.Fatal("nobody received the tick")
	}
}

type providerFunc func(ctx context.Context) (*lesson.Document, error)

func (this providerFunc) Load(ctx context.Context) (*lesson.Document, error) {
	return this(ctx)
}
