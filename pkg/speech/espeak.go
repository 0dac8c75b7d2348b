package speech

import (
	"bufio"
	"context"
	"strings"
)

// newEspeakEngine reads text using eSpeak NG.
func newEspeakEngine(binary string) *commandEngine {
	return &commandEngine{
		binary: binary,
		t:      TypeEspeak,
		arguments: func(u Utterance) []string {
			args := []string{"-s", formatWordsPerMinute(u.Rate), "--stdin"}
			if u.Voice != "" {
				args = append(args, "-v", u.Voice)
			}
			return args
		},
		voices: func(ctx context.Context, binary string) (Voices, error) {
			out, err := runForOutput(ctx, binary, "--voices")
			if err != nil {
				return nil, err
			}
			return parseEspeakVoices(out), nil
		},
	}
}

// Example:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US
func parseEspeakVoices(out string) (result Voices) {
	s := bufio.NewScanner(strings.NewReader(out))
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		result = append(result, Voice{
			ID:       fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: NormalizeLanguage(fields[1]),
		})
	}
	return result
}
