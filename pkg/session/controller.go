// Package session implements the state machine of a practice session: a
// lesson's questions are read aloud one after another, each followed by an
// answer countdown.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/echocat/slf4g"
	"github.com/google/uuid"

	"github.com/blaubaer/talk-practice/pkg/lesson"
	"github.com/blaubaer/talk-practice/pkg/observe"
	"github.com/blaubaer/talk-practice/pkg/speech"
)

const tickInterval = time.Second

// Controller owns the state of one practice session. It is not safe for
// concurrent use; all methods have to be called from the same goroutine
// (see Runner).
type Controller struct {
	speech  speech.Service
	clock   Clock
	metrics *observe.Metrics
	ctx     context.Context

	document  *lesson.Document
	settings  lesson.Settings
	lastError error

	lesson        *lesson.Lesson
	runId         string
	index         int
	remaining     int
	warning       bool
	running       bool
	paused        bool
	phase         Phase
	pendingAnswer bool

	voices         speech.Voices
	voice          string
	preferredVoice string
	speed          float64
	speedChosen    bool

	ticker        Ticker
	spoken        <-chan error
	speakingSince time.Time
}

// NewController creates a Controller using the given speech service. If
// clock is nil the SystemClock is used; metrics can be nil.
func NewController(service speech.Service, clock Clock, metrics *observe.Metrics) *Controller {
	if clock == nil {
		clock = SystemClock
	}
	settings := lesson.NewSettings()
	return &Controller{
		speech:    service,
		clock:     clock,
		metrics:   metrics,
		ctx:       context.Background(),
		settings:  settings,
		remaining: settings.TimerDuration,
		speed:     settings.DefaultSpeed,
	}
}

// LoadDocument applies a freshly loaded lesson document. A running session
// continues with the lesson it was started with.
func (this *Controller) LoadDocument(doc *lesson.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", lesson.ErrConfigUnavailable)
	}
	settings, err := doc.EffectiveSettings()
	if err != nil {
		return fmt.Errorf("%w: %w", lesson.ErrConfigUnavailable, err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: illegal settings: %w", lesson.ErrConfigUnavailable, err)
	}

	this.document = doc
	this.settings = settings
	this.lastError = nil
	if this.speedChosen {
		this.speed = settings.ClampSpeed(this.speed)
	} else {
		this.speed = settings.DefaultSpeed
	}

	if !this.running {
		var selected *lesson.Lesson
		if this.lesson != nil {
			if l, ok := doc.Lesson(this.lesson.ID); ok {
				selected = &l
			}
		}
		if this.phase == PhaseCompleted && selected != nil {
			// Only Restart leaves a completed lesson.
			this.lesson = selected
			this.index = selected.Len()
			this.remaining = settings.TimerDuration
		} else {
			this.reset()
			this.lesson = selected
		}
	}

	log.With("lessons", len(doc.Lessons)).
		With("timerDuration", settings.TimerDuration).
		Debug("Lesson document applied.")

	return nil
}

// DocumentFailed records that loading the lesson document failed. An
// already loaded document stays in use.
func (this *Controller) DocumentFailed(err error) {
	if !errors.Is(err, lesson.ErrConfigUnavailable) {
		err = fmt.Errorf("%w: %w", lesson.ErrConfigUnavailable, err)
	}
	this.lastError = err
	log.WithError(err).Warn("Cannot load lessons.")
}

func (this *Controller) SelectLesson(id string) error {
	if this.document == nil {
		if this.lastError != nil {
			return this.lastError
		}
		return fmt.Errorf("%w: lessons are not loaded yet", lesson.ErrConfigUnavailable)
	}
	l, ok := this.document.Lesson(id)
	if !ok {
		return fmt.Errorf("%w: there is no lesson %q", lesson.ErrConfigUnavailable, id)
	}

	if this.running {
		this.metrics.RecordSessionEnded(this.ctx, this.lesson.ID, observe.EventStopped)
	}
	this.reset()
	this.lesson = &l

	log.With("lesson", l.ID).
		Debug("Lesson selected.")

	return nil
}

func (this *Controller) Start() error {
	if this.lesson == nil {
		return ErrNoLessonSelected
	}
	if this.running {
		return ErrAlreadyRunning
	}
	if this.phase == PhaseCompleted {
		return ErrCompleted
	}

	this.runId = uuid.NewString()
	this.running = true
	this.paused = false
	this.pendingAnswer = false
	this.index = 0

	this.metrics.RecordSessionStarted(this.ctx, this.lesson.ID)
	log.With("lesson", this.lesson.ID).
		With("run", this.runId).
		With("questions", this.lesson.Len()).
		Info("Session started.")

	this.enterSpeaking()
	return nil
}

// Skip ends the current question immediately and continues with the next
// one.
func (this *Controller) Skip() error {
	if !this.running {
		return ErrNotRunning
	}
	if this.paused {
		return ErrPaused
	}
	this.stopTicker()
	this.cancelSpeech()
	this.nextQuestion()
	return nil
}

func (this *Controller) Pause() error {
	if !this.running {
		return ErrNotRunning
	}
	if this.paused {
		return nil
	}
	this.paused = true
	if this.spoken != nil {
		if err := this.speech.Pause(); err != nil {
			log.WithError(err).Warn("Cannot pause speech; it will continue.")
		}
	}
	this.stopTicker()
	this.metrics.RecordPause(this.ctx)

	log.With("phase", this.phase).
		With("remaining", this.remaining).
		Debug("Session paused.")
	return nil
}

// Resume continues a paused session. If the question was read completely
// while the session was paused, the answer countdown starts now.
func (this *Controller) Resume() error {
	if !this.running {
		return ErrNotRunning
	}
	if !this.paused {
		return nil
	}
	this.paused = false
	if this.spoken != nil {
		if err := this.speech.Resume(); err != nil {
			log.WithError(err).Warn("Cannot resume speech.")
		}
	}

	switch {
	case this.pendingAnswer:
		this.enterAwaitingAnswer()
	case this.phase == PhaseAwaitingAnswer:
		this.startTicker()
	}

	log.With("phase", this.phase).
		With("remaining", this.remaining).
		Debug("Session resumed.")
	return nil
}

func (this *Controller) TogglePause() error {
	if this.paused {
		return this.Resume()
	}
	return this.Pause()
}

// Stop ends the running session and returns to the state right after the
// lesson was selected. It has to be confirmed.
func (this *Controller) Stop(confirmed bool) error {
	if !this.running {
		return ErrNotRunning
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	this.metrics.RecordSessionEnded(this.ctx, this.lesson.ID, observe.EventStopped)
	log.With("lesson", this.lesson.ID).
		With("run", this.runId).
		With("question", this.index).
		Info("Session stopped.")

	this.reset()
	return nil
}

// Restart returns a completed lesson to the state right after it was
// selected.
func (this *Controller) Restart() error {
	if this.phase != PhaseCompleted {
		return ErrNotCompleted
	}
	this.reset()
	return nil
}

// SetVoices replaces the available voices. Only English voices are kept.
// The selected voice stays selected if it is still available, otherwise the
// preferred or the first voice is selected.
func (this *Controller) SetVoices(all speech.Voices) {
	this.voices = all.English()
	switch {
	case this.voices.IndexOf(this.voice) >= 0:
	case this.voices.IndexOf(this.preferredVoice) >= 0:
		this.voice = this.preferredVoice
	case len(this.voices) > 0:
		this.voice = this.voices[0].ID
	default:
		this.voice = ""
	}
}

func (this *Controller) SelectVoice(id string) error {
	if this.voices.IndexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNoVoice, id)
	}
	this.voice = id
	this.preferredVoice = id
	return nil
}

// PreferVoice selects the given voice once it becomes available.
func (this *Controller) PreferVoice(id string) {
	this.preferredVoice = id
	if this.voices.IndexOf(id) >= 0 {
		this.voice = id
	}
}

// CycleVoice moves the selection n voices further; negative n moves
// backwards.
func (this *Controller) CycleVoice(n int) error {
	l := len(this.voices)
	if l == 0 {
		return ErrNoVoice
	}
	i := this.voices.IndexOf(this.voice)
	if i < 0 {
		i = 0
	} else {
		i = ((i+n)%l + l) % l
	}
	this.voice = this.voices[i].ID
	this.preferredVoice = this.voice
	return nil
}

// SetSpeed sets the speech rate which is used starting with the next
// question. It is bound to the limits of the settings.
func (this *Controller) SetSpeed(v float64) {
	this.speed = this.settings.ClampSpeed(v)
	this.speedChosen = true
}

func (this *Controller) StepSpeed(n int) {
	this.speed = this.settings.StepSpeed(this.speed, n)
	this.speedChosen = true
}

// TickC is the channel of the running answer countdown; nil if there is
// none.
func (this *Controller) TickC() <-chan time.Time {
	if this.ticker == nil {
		return nil
	}
	return this.ticker.C()
}

// SpeechC delivers the result of the question which is currently read
// aloud; nil if there is none.
func (this *Controller) SpeechC() <-chan error {
	return this.spoken
}

// Tick advances the answer countdown by one second.
func (this *Controller) Tick() {
	if !this.running || this.paused || this.phase != PhaseAwaitingAnswer || this.ticker == nil {
		return
	}
	this.remaining--
	this.warning = this.remaining <= lesson.WarningSeconds
	if this.remaining <= 0 {
		this.remaining = 0
		this.stopTicker()
		this.nextQuestion()
	}
}

// SpeechFinished handles the result of reading the current question. A
// failure is treated like a completion.
func (this *Controller) SpeechFinished(err error) {
	this.spoken = nil

	status := observe.StatusOk
	if err != nil {
		status = observe.StatusFailed
		if errors.Is(err, speech.ErrCanceled) {
			status = observe.StatusCanceled
		}
		log.WithError(err).
			With("question", this.index).
			Warn("Cannot read question aloud; continuing with the answer.")
	}
	this.metrics.RecordSpeech(this.ctx, this.clock.Now().Sub(this.speakingSince).Seconds(), status)

	if !this.running || this.phase != PhaseSpeaking {
		return
	}
	if this.paused {
		this.pendingAnswer = true
		return
	}
	this.enterAwaitingAnswer()
}

// Shutdown releases the ticker and cancels the speech without touching the
// session state.
func (this *Controller) Shutdown() {
	this.stopTicker()
	this.cancelSpeech()
}

func (this *Controller) Snapshot() Snapshot {
	result := Snapshot{
		RunID:               this.runId,
		ConfigurationLoaded: this.document != nil,
		Settings:            this.settings,
		Remaining:           this.remaining,
		Warning:             this.warning,
		Phase:               this.phase,
		Running:             this.running,
		Paused:              this.paused,
		Voices:              this.voices,
		Voice:               this.voice,
		Speed:               this.speed,
		QuestionIndex:       this.index,
	}
	if err := this.lastError; err != nil {
		result.Error = err.Error()
	}
	if doc := this.document; doc != nil {
		for _, id := range doc.IDs() {
			l, _ := doc.Lesson(id)
			result.Lessons = append(result.Lessons, l)
		}
	}
	if l := this.lesson; l != nil {
		result.LessonID = l.ID
		result.LessonTitle = l.DisplayName()
		result.Total = l.Len()
		if this.phase == PhaseSpeaking || this.phase == PhaseAwaitingAnswer {
			result.Question, _ = l.Question(this.index)
		}
	}
	return result
}

func (this *Controller) enterSpeaking() {
	this.stopTicker()
	this.cancelSpeech()

	question, _ := this.lesson.Question(this.index)
	this.phase = PhaseSpeaking
	this.pendingAnswer = false
	this.warning = false
	this.remaining = this.settings.TimerDuration
	this.speakingSince = this.clock.Now()
	this.spoken = this.speech.Speak(this.ctx, speech.Utterance{
		Text:  question,
		Voice: this.voice,
		Rate:  this.speed,
	})
	this.metrics.RecordQuestion(this.ctx, this.lesson.ID)

	log.With("question", this.index).
		With("voice", this.voice).
		With("speed", this.speed).
		Debug("Reading question...")
}

func (this *Controller) enterAwaitingAnswer() {
	this.phase = PhaseAwaitingAnswer
	this.pendingAnswer = false
	this.remaining = this.settings.TimerDuration
	this.warning = false
	this.startTicker()
	this.metrics.RecordAnswerPhase(this.ctx, this.lesson.ID)

	log.With("question", this.index).
		With("remaining", this.remaining).
		Debug("Awaiting answer...")
}

func (this *Controller) nextQuestion() {
	this.index++
	if this.index >= this.lesson.Len() {
		this.index = this.lesson.Len()
		this.complete()
		return
	}
	this.enterSpeaking()
}

func (this *Controller) complete() {
	this.stopTicker()
	this.cancelSpeech()
	this.running = false
	this.paused = false
	this.pendingAnswer = false
	this.warning = false
	this.phase = PhaseCompleted

	this.metrics.RecordSessionEnded(this.ctx, this.lesson.ID, observe.EventCompleted)
	log.With("lesson", this.lesson.ID).
		With("run", this.runId).
		Info("Lesson completed.")
}

func (this *Controller) reset() {
	this.stopTicker()
	this.cancelSpeech()
	this.running = false
	this.paused = false
	this.pendingAnswer = false
	this.index = 0
	this.remaining = this.settings.TimerDuration
	this.warning = false
	this.phase = PhaseIdle
	this.runId = ""
}

func (this *Controller) startTicker() {
	this.stopTicker()
	this.ticker = this.clock.NewTicker(tickInterval)
}

func (this *Controller) stopTicker() {
	if v := this.ticker; v != nil {
		v.Stop()
		this.ticker = nil
	}
}

// cancelSpeech cancels the current utterance. Its result is not of interest
// anymore and will not be delivered by SpeechC.
func (this *Controller) cancelSpeech() {
	if this.spoken != nil {
		this.speech.Cancel()
		this.spoken = nil
	}
}
