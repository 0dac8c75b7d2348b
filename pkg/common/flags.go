package common

import (
	"strings"

	"github.com/alecthomas/kingpin/v2"
)

const envarPrefix = "TP_"

type FlagHolder interface {
	Flag(name, help string) *kingpin.FlagClause
}

// Envar converts a dotted flag name like "speech.type" into the environment
// variable which could also hold its value ("TP_SPEECH_TYPE").
func Envar(flagName string) string {
	var sb strings.Builder
	sb.WriteString(envarPrefix)
	var last rune
	for _, c := range flagName {
		switch {
		case c == '.' || c == '-':
			sb.WriteRune('_')
		case c >= 'A' && c <= 'Z' && last >= 'a' && last <= 'z':
			sb.WriteRune('_')
			sb.WriteRune(c)
		default:
			sb.WriteString(strings.ToUpper(string(c)))
		}
		last = c
	}
	return sb.String()
}
