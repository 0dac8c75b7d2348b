package speech

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeAuto   = Type(0)
	TypeSay    = Type(1)
	TypeEspeak = Type(2)
	TypeSapi   = Type(3)
	TypeSilent = Type(4)

	TypeDefault = TypeAuto
)

var (
	AllTypes = Types{
		TypeAuto,
		TypeSay,
		TypeEspeak,
		TypeSapi,
		TypeSilent,
	}

	// autoCandidates are tried in this order if TypeAuto is requested.
	autoCandidates = Types{
		TypeSapi,
		TypeSay,
		TypeEspeak,
		TypeSilent,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "auto", "":
		*this = TypeAuto
		return nil
	case "say", "macos":
		*this = TypeSay
		return nil
	case "espeak", "espeak-ng":
		*this = TypeEspeak
		return nil
	case "sapi", "windows":
		*this = TypeSapi
		return nil
	case "silent", "none":
		*this = TypeSilent
		return nil
	default:
		return fmt.Errorf("illegal-speech-type: %s", plain)
	}
}

func (this Type) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-speech-type-%d", this)
	}
	return string(v)
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeAuto:
		return []byte("auto"), nil
	case TypeSay:
		return []byte("say"), nil
	case TypeEspeak:
		return []byte("espeak"), nil
	case TypeSapi:
		return []byte("sapi"), nil
	case TypeSilent:
		return []byte("silent"), nil
	default:
		return nil, fmt.Errorf("illegal speech type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
