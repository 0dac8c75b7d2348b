package hue

import (
	"fmt"
	"strconv"
	"strings"
)

// Color of a Hue light. It is written as "<hue>,<saturation>,<brightness>"
// in flags and configuration files.
type Color struct {
	// Hue wraps between 0 and 65535; both are red, 25500 is green and
	// 46920 is blue.
	Hue uint16
	// Saturation from 0 (white) to 254 (most colored).
	Saturation uint8
	// Brightness from 1 (minimum the light is capable of) to 254.
	Brightness uint8
}

func (this *Color) Set(plain string) error {
	parts := strings.Split(plain, ",")
	if len(parts) != 3 {
		return fmt.Errorf("illegal-hue-color: %s; expected <hue>,<saturation>,<brightness>", plain)
	}
	h, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 16)
	if err != nil {
		return fmt.Errorf("illegal-hue-color: %s; illegal hue: %w", plain, err)
	}
	s, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
	if err != nil || s > 254 {
		return fmt.Errorf("illegal-hue-color: %s; saturation has to be between 0 and 254", plain)
	}
	b, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 8)
	if err != nil || b < 1 || b > 254 {
		return fmt.Errorf("illegal-hue-color: %s; brightness has to be between 1 and 254", plain)
	}
	*this = Color{uint16(h), uint8(s), uint8(b)}
	return nil
}

func (this Color) String() string {
	return fmt.Sprintf("%d,%d,%d", this.Hue, this.Saturation, this.Brightness)
}

func (this Color) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Color) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}
