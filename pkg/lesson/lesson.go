package lesson

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Lesson is an ordered set of questions which are presented in one practice
// session. It is not modified after it was loaded.
type Lesson struct {
	ID        string   `json:"-" yaml:"-" toml:"-"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Questions []string `json:"questions" yaml:"questions" toml:"questions"`
}

func (this Lesson) Len() int {
	return len(this.Questions)
}

// Question returns the question at the given 0-based index.
func (this Lesson) Question(i int) (string, bool) {
	if i < 0 || i >= len(this.Questions) {
		return "", false
	}
	return this.Questions[i], true
}

// DisplayName is the title if present, otherwise a generic name derived
// from the ID.
func (this Lesson) DisplayName() string {
	if v := strings.TrimSpace(this.Title); v != "" {
		return v
	}
	return "Lesson " + this.ID
}

func (this Lesson) Validate() error {
	if len(this.Questions) == 0 {
		return fmt.Errorf("lesson %q does not contain any questions", this.ID)
	}
	for i, q := range this.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("question #%d of lesson %q is empty", i+1, this.ID)
		}
	}
	return nil
}

type Lessons map[string]Lesson

// IDs returns all lesson identifiers. Numeric identifiers come first in
// numeric order, the others follow in lexical order.
func (this Lessons) IDs() []string {
	result := make([]string, 0, len(this))
	for id := range this {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool {
		return lessIdentifier(result[i], result[j])
	})
	return result
}

func lessIdentifier(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if an != bn {
			return an < bn
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
