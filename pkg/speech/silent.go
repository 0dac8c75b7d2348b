package speech

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	silentWordsPerSecond = 2.5
	silentMinDuration    = 500 * time.Millisecond
)

// SilentEngine plays nothing. An utterance takes as long as reading it
// aloud would approximately take. It is used if no audio is wanted or no
// other engine is available.
type SilentEngine struct {
	WordsPerSecond float64
	MinDuration    time.Duration
}

func NewSilentEngine() *SilentEngine {
	return &SilentEngine{
		WordsPerSecond: silentWordsPerSecond,
		MinDuration:    silentMinDuration,
	}
}

func (this *SilentEngine) Duration(u Utterance) time.Duration {
	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	words := len(strings.Fields(u.Text))
	result := time.Duration(float64(words) / (this.WordsPerSecond * rate) * float64(time.Second))
	if result < this.MinDuration {
		return this.MinDuration
	}
	return result
}

func (this *SilentEngine) Start(ctx context.Context, u Utterance) (Process, error) {
	result := &silentProcess{
		ctx:       ctx,
		remaining: this.Duration(u),
		done:      make(chan struct{}),
	}
	result.schedule()
	return result, nil
}

func (this *SilentEngine) Voices(context.Context) (Voices, error) {
	return Voices{{
		ID:       "silent",
		Name:     "Silent",
		Language: "en-US",
	}}, nil
}

func (this *SilentEngine) GetType() Type {
	return TypeSilent
}

func (this *SilentEngine) Close() error {
	return nil
}

type silentProcess struct {
	ctx       context.Context
	remaining time.Duration
	startedAt time.Time
	timer     *time.Timer
	paused    bool
	done      chan struct{}
	mutex     sync.Mutex
}

func (this *silentProcess) schedule() {
	this.startedAt = time.Now()
	this.timer = time.AfterFunc(this.remaining, func() {
		close(this.done)
	})
}

func (this *silentProcess) Wait() error {
	select {
	case <-this.done:
		return nil
	case <-this.ctx.Done():
		this.mutex.Lock()
		this.timer.Stop()
		this.mutex.Unlock()
		return this.ctx.Err()
	}
}

func (this *silentProcess) Pause() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.paused {
		return nil
	}
	if !this.timer.Stop() {
		// Already finished.
		return nil
	}
	this.remaining -= time.Since(this.startedAt)
	if this.remaining < 0 {
		this.remaining = 0
	}
	this.paused = true
	return nil
}

func (this *silentProcess) Resume() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.paused {
		return nil
	}
	this.paused = false
	this.schedule()
	return nil
}
