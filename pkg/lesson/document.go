package lesson

import (
	"fmt"
)

// Document is everything the lesson source provides: the lessons itself and
// the settings which drive a practice session.
type Document struct {
	Lessons  Lessons   `json:"lessons" yaml:"lessons" toml:"lessons"`
	Settings *Settings `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
}

// Lesson returns the lesson with the given identifier.
func (this *Document) Lesson(id string) (Lesson, bool) {
	if this == nil {
		return Lesson{}, false
	}
	v, ok := this.Lessons[id]
	return v, ok
}

func (this *Document) IDs() []string {
	if this == nil {
		return nil
	}
	return this.Lessons.IDs()
}

// EffectiveSettings returns the settings of this document completed by the
// defaults.
func (this *Document) EffectiveSettings() (Settings, error) {
	if this == nil || this.Settings == nil {
		return NewSettings(), nil
	}
	return this.Settings.WithDefaults()
}

// normalize fills the lesson identifiers, completes the settings and
// validates everything.
func (this *Document) normalize() error {
	if len(this.Lessons) == 0 {
		return fmt.Errorf("document does not contain any lessons")
	}
	for id, l := range this.Lessons {
		l.ID = id
		if err := l.Validate(); err != nil {
			return err
		}
		this.Lessons[id] = l
	}

	settings, err := this.EffectiveSettings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("illegal settings: %w", err)
	}
	this.Settings = &settings

	return nil
}
