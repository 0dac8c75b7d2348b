package hue

import (
	"fmt"
	"strings"
)

// Kind is what kind of Hue resource is switched.
type Kind uint8

const (
	KindLight = Kind(0)
	KindGroup = Kind(1)
)

var (
	AllKinds = Kinds{
		KindLight,
		KindGroup,
	}
)

func (this *Kind) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "light":
		*this = KindLight
		return nil
	case "group", "room":
		*this = KindGroup
		return nil
	default:
		return fmt.Errorf("illegal-hue-kind: %s", plain)
	}
}

func (this Kind) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-hue-kind-%d", this)
	}
	return string(v)
}

func (this Kind) MarshalText() (text []byte, err error) {
	switch this {
	case KindLight:
		return []byte("light"), nil
	case KindGroup:
		return []byte("group"), nil
	default:
		return nil, fmt.Errorf("illegal hue kind: %d", this)
	}
}

func (this *Kind) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

// Kinds is a set of Kind. Empty means all kinds.
type Kinds []Kind

func (this *Kinds) Set(plain string) error {
	for _, plain := range strings.Split(plain, ",") {
		plain = strings.TrimSpace(plain)
		if plain != "" {
			var v Kind
			if err := v.Set(plain); err != nil {
				return err
			}
			*this = append(*this, v)
		}
	}
	return nil
}

func (this Kinds) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Kinds) String() string {
	return strings.Join(this.Strings(), ",")
}

func (this Kinds) IsCumulative() bool {
	return true
}

func (this Kinds) Has(v Kind) bool {
	if len(this) == 0 {
		return true
	}
	for _, candidate := range this {
		if v == candidate {
			return true
		}
	}
	return false
}
