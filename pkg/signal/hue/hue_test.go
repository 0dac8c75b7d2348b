package hue

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/talk-practice/pkg/common"
	"github.com/blaubaer/talk-practice/pkg/credentials"
	"github.com/blaubaer/talk-practice/pkg/session"
	"github.com/blaubaer/talk-practice/pkg/signal"
)

func TestColor_Set(t *testing.T) {
	var instance Color
	require.NoError(t, instance.Set("46920, 254,200"))
	assert.Equal(t, Color{Hue: 46920, Saturation: 254, Brightness: 200}, instance)
	assert.Equal(t, "46920,254,200", instance.String())

	assert.Error(t, instance.Set("1,2"))
	assert.Error(t, instance.Set("70000,1,1"))
	assert.Error(t, instance.Set("1,255,1"))
	assert.Error(t, instance.Set("1,1,0"))
}

func TestKinds(t *testing.T) {
	var instance Kinds
	assert.True(t, instance.Has(KindGroup))

	require.NoError(t, instance.Set("light"))
	assert.True(t, instance.Has(KindLight))
	assert.False(t, instance.Has(KindGroup))

	require.NoError(t, instance.Set("room"))
	assert.Equal(t, "light,group", instance.String())
	assert.Error(t, instance.Set("lamp"))
}

func TestHue_targetState(t *testing.T) {
	conf := NewConfiguration()
	instance := &Hue{conf: &conf}

	assert.Nil(t, instance.targetState(signal.StateOff, &huego.State{On: false}))
	assert.Equal(t, &huego.State{On: false}, instance.targetState(signal.StateOff, &huego.State{On: true}))

	speaking := instance.targetState(signal.StateSpeaking, &huego.State{On: false})
	require.NotNil(t, speaking)
	assert.True(t, speaking.On)
	assert.Equal(t, conf.Speaking.Hue, speaking.Hue)

	assert.Nil(t, instance.targetState(signal.StateSpeaking, speaking))
	assert.NotNil(t, instance.targetState(signal.StateWarning, speaking))
}

func TestHue_matches(t *testing.T) {
	conf := NewConfiguration()
	instance := &Hue{conf: &conf}

	assert.True(t, instance.matches("Practice Lamp"))
	assert.False(t, instance.matches("Kitchen"))

	conf.Name = common.Pattern{}
	assert.False(t, instance.matches("Practice Lamp"))
	assert.False(t, instance.matches(""))
}

func TestHue_Ensure(t *testing.T) {
	var mutex sync.Mutex
	puts := map[string]map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/lights":
			_, _ = w.Write([]byte(`{
				"1": {"name": "Practice Lamp", "state": {"on": false}},
				"2": {"name": "Kitchen", "state": {"on": false}}
			}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/groups":
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			mutex.Lock()
			puts[r.URL.Path] = body
			mutex.Unlock()
			_, _ = w.Write([]byte(`[{"success": {"/lights/1/state/on": true}}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	conf := NewConfiguration()
	instance := &Hue{
		conf:        &conf,
		credentials: credentials.Credentials{HueBridge: server.URL, HueUser: "user"},
	}
	require.NoError(t, instance.Update())
	require.Len(t, instance.lights, 1)

	ctx := signal.NewContext(session.Snapshot{Running: true, Phase: session.PhaseSpeaking})
	require.NoError(t, instance.Ensure(ctx))

	mutex.Lock()
	body := puts["/api/user/lights/1/state"]
	mutex.Unlock()
	require.NotNil(t, body)
	assert.Equal(t, true, body["on"])
	assert.Equal(t, float64(conf.Speaking.Hue), body["hue"])

	// Nothing changes; no further request.
	mutex.Lock()
	delete(puts, "/api/user/lights/1/state")
	mutex.Unlock()
	require.NoError(t, instance.Ensure(ctx))
	assert.Empty(t, puts)
}
