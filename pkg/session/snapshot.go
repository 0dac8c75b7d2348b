package session

import (
	"github.com/blaubaer/talk-practice/pkg/lesson"
	"github.com/blaubaer/talk-practice/pkg/speech"
)

// Snapshot is an immutable copy of the state of a Controller.
type Snapshot struct {
	RunID string

	ConfigurationLoaded bool
	// Error is the last problem with loading the lessons; empty if there
	// is none.
	Error    string
	Lessons  []lesson.Lesson
	Settings lesson.Settings

	LessonID      string
	LessonTitle   string
	Question      string
	QuestionIndex int
	Total         int

	Remaining int
	Warning   bool

	Phase   Phase
	Running bool
	Paused  bool

	Voices speech.Voices
	Voice  string
	Speed  float64
}

// Progress is QuestionIndex/Total in the range [0, 1].
func (this Snapshot) Progress() float64 {
	if this.Total <= 0 {
		return 0
	}
	return float64(this.QuestionIndex) / float64(this.Total)
}

func (this Snapshot) HasLesson() bool {
	return this.LessonID != ""
}

// QuestionNumber is the 1-based number of the current question as shown to
// the user.
func (this Snapshot) QuestionNumber() int {
	return min(this.QuestionIndex+1, this.Total)
}

// AwaitingAnswer reports whether the answer countdown is the current phase,
// regardless whether it is paused or not.
func (this Snapshot) AwaitingAnswer() bool {
	return this.Phase == PhaseAwaitingAnswer
}

func (this Snapshot) Status() string {
	switch {
	case !this.ConfigurationLoaded && this.Error != "":
		return "configuration unavailable"
	case !this.ConfigurationLoaded:
		return "loading lessons"
	case this.Phase == PhaseCompleted:
		return "lesson completed"
	case this.Paused:
		return "paused"
	case this.Phase == PhaseSpeaking:
		return "speaking"
	case this.Phase == PhaseAwaitingAnswer:
		return "awaiting answer"
	case this.HasLesson():
		return "press start to begin"
	default:
		return "select a lesson"
	}
}

// SelectedVoice returns the voice currently used to read the questions.
func (this Snapshot) SelectedVoice() (speech.Voice, bool) {
	return this.Voices.Find(this.Voice)
}
