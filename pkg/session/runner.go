package session

import (
	"context"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/talk-practice/pkg/lesson"
)

// Runner executes every event of a Controller on one goroutine: commands
// of the user, ticks of the countdown, results of the speech service and
// loaded lesson documents.
type Runner struct {
	controller *Controller
	provider   lesson.Provider

	commands chan command
	loaded   chan loadResult
	done     chan struct{}
	runCtx   context.Context

	subscribers []chan Snapshot
	last        *Snapshot
	stopped     bool
	mutex       sync.Mutex
}

type command struct {
	fn     func(*Controller) error
	result chan error
}

type loadResult struct {
	document *lesson.Document
	err      error
}

func NewRunner(controller *Controller, provider lesson.Provider) *Runner {
	return &Runner{
		controller: controller,
		provider:   provider,
		commands:   make(chan command),
		loaded:     make(chan loadResult, 1),
		done:       make(chan struct{}),
	}
}

// Subscribe returns a channel which receives the snapshot after each event,
// starting with the latest published one. Slow consumers only miss
// intermediate snapshots, never the latest one. The channel is closed once
// the Runner ends.
func (this *Runner) Subscribe() <-chan Snapshot {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	result := make(chan Snapshot, 1)
	if this.stopped {
		close(result)
		return result
	}
	if v := this.last; v != nil {
		result <- *v
	}
	this.subscribers = append(this.subscribers, result)
	return result
}

// Run processes events until ctx is done. The lesson document is loaded
// right away.
func (this *Runner) Run(ctx context.Context) error {
	this.runCtx = ctx
	this.controller.ctx = ctx
	defer this.shutdown()

	this.load()
	this.publish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-this.commands:
			cmd.result <- cmd.fn(this.controller)
		case <-this.controller.TickC():
			this.controller.Tick()
		case err := <-this.controller.SpeechC():
			this.controller.SpeechFinished(err)
		case r := <-this.loaded:
			this.apply(r)
		}
		this.publish()
	}
}

// Do executes fn on the goroutine of the Runner and returns its error.
func (this *Runner) Do(ctx context.Context, fn func(*Controller) error) error {
	cmd := command{fn, make(chan error, 1)}
	select {
	case this.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-this.done:
		return ErrRunnerStopped
	}
	return <-cmd.result
}

// Snapshot returns the current state of the Controller.
func (this *Runner) Snapshot(ctx context.Context) (result Snapshot, err error) {
	err = this.Do(ctx, func(c *Controller) error {
		result = c.Snapshot()
		return nil
	})
	return result, err
}

// Reload loads the lesson document again in the background. The outcome is
// reflected by the next snapshots.
func (this *Runner) Reload(ctx context.Context) error {
	return this.Do(ctx, func(*Controller) error {
		this.load()
		return nil
	})
}

func (this *Runner) load() {
	ctx := this.runCtx
	provider := this.provider
	if provider == nil {
		return
	}
	go func() {
		doc, err := provider.Load(ctx)
		select {
		case this.loaded <- loadResult{doc, err}:
		case <-ctx.Done():
		}
	}()
}

func (this *Runner) apply(r loadResult) {
	if r.err != nil {
		this.controller.DocumentFailed(r.err)
		return
	}
	if err := this.controller.LoadDocument(r.document); err != nil {
		this.controller.DocumentFailed(err)
	}
}

func (this *Runner) publish() {
	s := this.controller.Snapshot()

	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.last = &s
	for _, c := range this.subscribers {
		offer(c, s)
	}
}

// offer replaces a not yet consumed snapshot by the given one.
func offer(c chan Snapshot, s Snapshot) {
	for {
		select {
		case c <- s:
			return
		default:
		}
		select {
		case <-c:
		default:
		}
	}
}

func (this *Runner) shutdown() {
	this.controller.Shutdown()
	close(this.done)

	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.stopped = true
	for _, c := range this.subscribers {
		close(c)
	}
	this.subscribers = nil

	log.Debug("Session runner stopped.")
}
