package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"
)

type settable interface {
	IsZero() bool
	Set(string) error
}

func newTerminalReader() (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Stdin:  os.Stdin,
		Stdout: os.Stderr,
	})
}

func RequestContentIfRequiredFromTerminal(of settable, promptName string, canBeEmpty, isPassword bool) error {
	if !of.IsZero() {
		return nil
	}

	l, err := newTerminalReader()
	if err != nil {
		return fmt.Errorf("could not read from terminal for prompt %q: %w", promptName, err)
	}
	defer func() {
		_ = l.Close()
	}()

	prompt := fmt.Sprintf("Enter %s: ", promptName)
	l.SetPrompt(prompt)
	if isPassword {
		l.SetMaskRune('*')
	}
	l.ResetHistory()
	for of.IsZero() {
		var line string
		if isPassword {
			var b []byte
			b, err = l.ReadPassword(prompt)
			line = string(b)
		} else {
			line, err = l.Readline()
		}
		if err != nil {
			return fmt.Errorf("could not read from terminal for prompt %q: %w", promptName, err)
		}
		if err := of.Set(line); err != nil {
			log.WithError(err).
				Error()
		}
		if canBeEmpty && of.IsZero() {
			return nil
		}
	}
	return nil
}

func RequestStringContentIfRequiredFromTerminal(of *string, promptName string, canBeEmpty, isPassword bool) error {
	buf := rawString(*of)
	if err := RequestContentIfRequiredFromTerminal(&buf, promptName, canBeEmpty, isPassword); err != nil {
		return err
	}
	*of = string(buf)
	return nil
}

// Confirm asks a yes/no question using the given reader. Everything but an
// explicit yes is treated as no, including an interrupted prompt.
func Confirm(using *readline.Instance, question string) (bool, error) {
	before := using.Config.Prompt
	defer using.SetPrompt(before)

	using.SetPrompt(question + " [y/N]: ")
	line, err := using.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not read confirmation for %q: %w", question, err)
	}
	return IsYes(line), nil
}

func IsYes(plain string) bool {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "y", "yes", "j", "ja", "true", "1":
		return true
	default:
		return false
	}
}

type rawString []byte

func (v rawString) IsZero() bool {
	return len(v) == 0
}

func (v *rawString) Set(s string) error {
	*v = rawString(s)
	return nil
}
