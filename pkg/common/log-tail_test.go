package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTail_Write(t *testing.T) {
	instance := NewLogTail(3, 10)
	write := func(v ...string) {
		t.Helper()
		toWrite := []byte(strings.Join(v, ""))
		n, err := instance.Write(toWrite)
		require.NoError(t, err)
		require.Equal(t, len(toWrite), n)
	}

	assert.Equal(t, 0, instance.Len())
	assert.Nil(t, instance.Last(5))

	write("abc")
	assert.Equal(t, 0, instance.Len())

	write("def\n")
	assert.Equal(t, []string{"abcdef"}, instance.Last(5))

	write("one\ntwo\nthree")
	assert.Equal(t, []string{"abcdef", "one", "two"}, instance.Last(5))

	write("\n")
	assert.Equal(t, []string{"one", "two", "three"}, instance.Last(5))
	assert.Equal(t, []string{"two", "three"}, instance.Last(2))

	write("\r\n")
	assert.Equal(t, []string{"two", "three", ""}, instance.Last(3))
}

func TestLogTail_TruncatesLongLines(t *testing.T) {
	instance := NewLogTail(3, 5)

	_, err := instance.Write([]byte("0123456789\nab\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"01234", "ab"}, instance.Last(3))
}

func TestLogTail_OnNewLine(t *testing.T) {
	instance := NewLogTail(2, 20)
	var seen []string
	instance.OnNewLine = func(line []byte) {
		seen = append(seen, string(line))
	}

	_, err := instance.Write([]byte("a\nb\nc"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestLogTail_WriteTo(t *testing.T) {
	instance := NewLogTail(2, 20)
	_, err := instance.Write([]byte("a\nb\nc\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := instance.WriteTo(&buf)
	require.NoError(t, err)

	assert.Equal(t, "b\nc\n", buf.String())
	assert.Equal(t, int64(4), n)
}

func TestEnvar(t *testing.T) {
	assert.Equal(t, "TP_SPEECH_TYPE", Envar("speech.type"))
	assert.Equal(t, "TP_SIGNAL_HOME_ASSISTANT_ENTITY_ID", Envar("signal.homeAssistant.entityId"))
	assert.Equal(t, "TP_PREVENT_AUTO_SAVE", Envar("preventAutoSave"))
}

func TestPattern(t *testing.T) {
	var instance Pattern
	assert.True(t, instance.IsZero())
	assert.False(t, instance.HasContent())
	assert.True(t, instance.MatchString("anything"))

	require.NoError(t, instance.Set("^Practice"))
	assert.True(t, instance.HasContent())
	assert.True(t, instance.MatchString("Practice Lamp"))
	assert.False(t, instance.MatchString("Kitchen"))
	assert.Equal(t, "^Practice", instance.String())

	assert.Error(t, instance.Set("(["))
}

func TestIsYes(t *testing.T) {
	assert.True(t, IsYes(" Yes "))
	assert.True(t, IsYes("y"))
	assert.False(t, IsYes(""))
	assert.False(t, IsYes("no"))
}
