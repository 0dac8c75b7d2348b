package speech

import (
	"fmt"
	"sort"
	"strings"
)

type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

func (this Voice) String() string {
	return fmt.Sprintf("%s (%s)", this.Name, this.Language)
}

// Label is the human-readable representation of this voice including a
// hint for the preferred variants.
func (this Voice) Label() string {
	switch englishRank(this.Language) {
	case 0:
		return this.String() + " [recommended]"
	case 1:
		return this.String() + " [UK]"
	default:
		return this.String()
	}
}

type Voices []Voice

// English returns only the English voices. US voices come first, then UK
// voices, then all other English variants. The order inside each group is
// retained.
func (this Voices) English() Voices {
	result := make(Voices, 0, len(this))
	for _, v := range this {
		if englishRank(v.Language) >= 0 {
			result = append(result, v)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return englishRank(result[i].Language) < englishRank(result[j].Language)
	})
	return result
}

func (this Voices) IndexOf(id string) int {
	for i, v := range this {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (this Voices) Find(id string) (Voice, bool) {
	if i := this.IndexOf(id); i >= 0 {
		return this[i], true
	}
	return Voice{}, false
}

func (this Voices) Equal(o Voices) bool {
	if len(this) != len(o) {
		return false
	}
	for i, v := range this {
		if v != o[i] {
			return false
		}
	}
	return true
}

func (this Voices) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

// englishRank returns 0 for US English, 1 for UK English, 2 for any other
// English variant and -1 for everything else.
func englishRank(language string) int {
	switch {
	case strings.HasPrefix(language, "en-US"):
		return 0
	case strings.HasPrefix(language, "en-GB"):
		return 1
	case language == "en" || strings.HasPrefix(language, "en-"):
		return 2
	default:
		return -1
	}
}

// NormalizeLanguage turns language tags like "en_us" or "EN-gb" into
// "en-US" and "en-GB".
func NormalizeLanguage(plain string) string {
	plain = strings.TrimSpace(strings.ReplaceAll(plain, "_", "-"))
	if plain == "" {
		return ""
	}
	parts := strings.Split(plain, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) > 1 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}
