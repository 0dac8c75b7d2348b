package console

import (
	"fmt"

	"github.com/blaubaer/talk-practice/pkg/session"
)

// describe returns the lines which tell the user what changed between two
// snapshots.
func describe(previous, next session.Snapshot) (result []string) {
	add := func(format string, args ...any) {
		result = append(result, fmt.Sprintf(format, args...))
	}

	if next.Error != "" && next.Error != previous.Error {
		add("Lessons are not available: %s", next.Error)
	}
	if next.ConfigurationLoaded && (!previous.ConfigurationLoaded || len(next.Lessons) != len(previous.Lessons)) {
		add("%d lessons loaded. Type 'lessons' to list them.", len(next.Lessons))
	}
	if next.HasLesson() && next.LessonID != previous.LessonID {
		add("Lesson %s selected: %s (%d questions).", next.LessonID, next.LessonTitle, next.Total)
	}

	if next.Running && (!previous.Running || next.RunID != previous.RunID) {
		add("Lesson started.")
	}
	if previous.Running && !next.Running && next.Phase == session.PhaseIdle && next.LessonID == previous.LessonID {
		add("Lesson stopped.")
	}

	if next.Running {
		if next.Phase == session.PhaseSpeaking &&
			(previous.Phase != session.PhaseSpeaking || previous.QuestionIndex != next.QuestionIndex || previous.RunID != next.RunID) {
			add("Question %d of %d: %s", next.QuestionNumber(), next.Total, next.Question)
		}
		if next.Phase == session.PhaseAwaitingAnswer && previous.Phase != session.PhaseAwaitingAnswer {
			add("Answer now, you have %d s.", next.Remaining)
		}
		if next.Warning && !previous.Warning {
			add("%d s left.", next.Remaining)
		}
		if next.Paused && !previous.Paused {
			add("Paused. Type 'resume' to continue.")
		}
		if !next.Paused && previous.Paused && previous.Running {
			add("Resumed.")
		}
	}

	if next.Phase == session.PhaseCompleted && previous.Phase != session.PhaseCompleted {
		add("Lesson completed. Type 'restart' to practice it again.")
	}

	if next.Voice != previous.Voice && next.Voice != "" && previous.Voice != "" {
		if v, ok := next.SelectedVoice(); ok {
			add("Voice: %s", v.Label())
		}
	}
	if next.Speed != previous.Speed && previous.Speed != 0 {
		add("Speed: %.1fx", next.Speed)
	}

	return result
}
