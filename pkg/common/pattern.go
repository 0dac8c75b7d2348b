package common

import (
	"fmt"
	"regexp"
)

func NewPattern(plain string) (result Pattern, err error) {
	err = result.Set(plain)
	return result, err
}

func MustNewPattern(plain string) Pattern {
	result, err := NewPattern(plain)
	if err != nil {
		panic(err)
	}
	return result
}

// Pattern is a regular expression usable as flag value and as YAML scalar.
// The zero value matches everything.
type Pattern struct {
	v *regexp.Regexp
}

func (this *Pattern) Set(plain string) error {
	if plain == "" {
		*this = Pattern{}
		return nil
	}

	buf, err := regexp.Compile(plain)
	if err != nil {
		return fmt.Errorf("illegal-pattern: %s", plain)
	}

	*this = Pattern{buf}
	return nil
}

func (this Pattern) String() string {
	if v := this.v; v != nil {
		return v.String()
	}
	return ""
}

func (this Pattern) MatchString(s string) bool {
	if v := this.v; v != nil {
		return v.MatchString(s)
	}
	return true
}

func (this Pattern) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Pattern) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Pattern) IsZero() bool {
	return this.v == nil
}

func (this Pattern) HasContent() bool {
	return !this.IsZero()
}
