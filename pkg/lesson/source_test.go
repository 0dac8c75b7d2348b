package lesson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonDocument = `{
	"lessons": {
		"2": {"questions": ["Where do you live?", "What do you do?"]},
		"1": {"title": "Introduction", "questions": ["What is your name?"]},
		"10": {"questions": ["Why?"]}
	},
	"settings": {
		"timerDuration": 30,
		"defaultSpeed": 1.2
	}
}`

const yamlDocument = `
lessons:
  "1":
    questions:
      - What is your name?
      - How old are you?
`

const tomlDocument = `
[settings]
timerDuration = 20

[lessons.1]
title = "Warm up"
questions = ["What is your name?", "Where are you from?"]
`

func TestDecode_Json(t *testing.T) {
	actual, err := Decode(strings.NewReader(jsonDocument), FormatJson)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "10"}, actual.IDs())

	l, ok := actual.Lesson("1")
	require.True(t, ok)
	assert.Equal(t, "1", l.ID)
	assert.Equal(t, "Introduction", l.DisplayName())
	assert.Equal(t, 1, l.Len())

	l2, ok := actual.Lesson("2")
	require.True(t, ok)
	assert.Equal(t, "Lesson 2", l2.DisplayName())

	settings, err := actual.EffectiveSettings()
	require.NoError(t, err)
	assert.Equal(t, 30, settings.TimerDuration)
	assert.Equal(t, 1.2, settings.DefaultSpeed)
	assert.Equal(t, DefaultMinSpeed, settings.MinSpeed)
	assert.Equal(t, DefaultMaxSpeed, settings.MaxSpeed)
	assert.Equal(t, DefaultSpeedStep, settings.SpeedStep)
}

func TestDecode_Yaml(t *testing.T) {
	actual, err := Decode(strings.NewReader(yamlDocument), FormatYaml)
	require.NoError(t, err)

	l, ok := actual.Lesson("1")
	require.True(t, ok)
	assert.Equal(t, []string{"What is your name?", "How old are you?"}, l.Questions)

	settings, err := actual.EffectiveSettings()
	require.NoError(t, err)
	assert.Equal(t, NewSettings(), settings)
}

func TestDecode_Toml(t *testing.T) {
	actual, err := Decode(strings.NewReader(tomlDocument), FormatToml)
	require.NoError(t, err)

	l, ok := actual.Lesson("1")
	require.True(t, ok)
	assert.Equal(t, "Warm up", l.Title)
	assert.Equal(t, 2, l.Len())

	settings, err := actual.EffectiveSettings()
	require.NoError(t, err)
	assert.Equal(t, 20, settings.TimerDuration)
}

func TestDecode_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"no lessons":      `{"lessons": {}}`,
		"no questions":    `{"lessons": {"1": {"questions": []}}}`,
		"blank question":  `{"lessons": {"1": {"questions": ["  "]}}}`,
		"broken settings": `{"lessons": {"1": {"questions": ["a"]}}, "settings": {"minSpeed": 3}}`,
		"syntax":          `{"lessons": `,
	}
	for name, plain := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(plain), FormatJson)
			assert.Error(t, err)
		})
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJson, FormatOf("config.json"))
	assert.Equal(t, FormatToml, FormatOf("/tmp/lessons.TOML"))
	assert.Equal(t, FormatYaml, FormatOf("lessons.yml"))
	assert.Equal(t, FormatYaml, FormatOf("lessons"))
}

func TestSource_LoadFromFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(fn, []byte(jsonDocument), 0600))

	actual, err := Source{Location: fn}.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, actual.Lessons, 3)
}

func TestSource_LoadFromMissingFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "absent.json")

	_, err := Source{Location: fn}.Load(context.Background())

	assert.ErrorIs(t, err, ErrConfigUnavailable)
}

func TestSource_LoadFromUrl(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lessons":
			w.Header().Set("Content-Type", "application/toml")
			_, _ = w.Write([]byte(tomlDocument))
		case "/config.json":
			_, _ = w.Write([]byte(jsonDocument))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	actual, err := Source{Location: server.URL + "/lessons"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, actual.IDs())

	actual, err = Source{Location: server.URL + "/config.json"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, actual.IDs())

	_, err = Source{Location: server.URL + "/absent"}.Load(context.Background())
	assert.ErrorIs(t, err, ErrConfigUnavailable)
}

func TestLessons_IDs(t *testing.T) {
	instance := Lessons{"b": {}, "3": {}, "a": {}, "20": {}, "1": {}}

	assert.Equal(t, []string{"1", "3", "20", "a", "b"}, instance.IDs())
}

func TestLesson_Question(t *testing.T) {
	instance := Lesson{ID: "1", Questions: []string{"a", "b"}}

	actual, ok := instance.Question(1)
	assert.True(t, ok)
	assert.Equal(t, "b", actual)

	_, ok = instance.Question(2)
	assert.False(t, ok)
	_, ok = instance.Question(-1)
	assert.False(t, ok)
}
