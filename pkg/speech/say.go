package speech

import (
	"bufio"
	"context"
	"regexp"
	"strings"
)

// newSayEngine reads text using the macOS say command.
func newSayEngine(binary string) *commandEngine {
	return &commandEngine{
		binary: binary,
		t:      TypeSay,
		arguments: func(u Utterance) []string {
			args := []string{"-r", formatWordsPerMinute(u.Rate), "-f", "-"}
			if u.Voice != "" {
				args = append(args, "-v", u.Voice)
			}
			return args
		},
		voices: func(ctx context.Context, binary string) (Voices, error) {
			out, err := runForOutput(ctx, binary, "-v", "?")
			if err != nil {
				return nil, err
			}
			return parseSayVoices(out), nil
		},
	}
}

// Example: "Samantha            en_US    # Hello! My name is Samantha."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([A-Za-z]{2,3}[_-][A-Za-z0-9]+)\s+#`)

func parseSayVoices(out string) (result Voices) {
	s := bufio.NewScanner(strings.NewReader(out))
	for s.Scan() {
		m := sayVoiceLine.FindStringSubmatch(s.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		result = append(result, Voice{
			ID:       name,
			Name:     name,
			Language: NormalizeLanguage(m[2]),
		})
	}
	return result
}
