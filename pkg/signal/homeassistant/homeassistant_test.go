package homeassistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/talk-practice/pkg/session"
	"github.com/blaubaer/talk-practice/pkg/signal"
)

type fakeServer struct {
	*httptest.Server
	entity map[string]any
	posts  int
	mutex  sync.Mutex
}

func newFakeServer(t *testing.T, token string) *fakeServer {
	result := &fakeServer{}
	result.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		result.mutex.Lock()
		defer result.mutex.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/":
			_, _ = w.Write([]byte(`{"message": "API running."}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/states/sensor.test":
			if result.entity == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(result.entity)
		case r.Method == http.MethodPost && r.URL.Path == "/api/states/sensor.test":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			body["entity_id"] = "sensor.test"
			status := http.StatusOK
			if result.entity == nil {
				status = http.StatusCreated
			}
			result.entity = body
			result.posts++
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(result.Close)
	return result
}

func (this *fakeServer) snapshot() (map[string]any, int) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.entity, this.posts
}

func TestHomeassistant_Ensure(t *testing.T) {
	server := newFakeServer(t, "secret")
	conf := Configuration{
		Server:           server.URL,
		Token:            "secret",
		EntityId:         "sensor.test",
		DeadZoneInterval: time.Minute,
	}
	instance := &Homeassistant{}
	require.NoError(t, instance.Initialize(&conf, func() error { return nil }))
	defer func() { assert.NoError(t, instance.Dispose()) }()

	speaking := session.Snapshot{
		Running:       true,
		Phase:         session.PhaseSpeaking,
		LessonID:      "3",
		LessonTitle:   "Travel",
		QuestionIndex: 1,
		Total:         4,
	}
	require.NoError(t, instance.Ensure(signal.NewContext(speaking)))

	entity, posts := server.snapshot()
	require.NotNil(t, entity)
	assert.Equal(t, 1, posts)
	assert.Equal(t, "speaking", entity["state"])
	attributes := entity["attributes"].(map[string]any)
	assert.Equal(t, "3", attributes["lesson"])
	assert.Equal(t, "Travel", attributes["lesson_title"])
	assert.Equal(t, float64(1), attributes["question"])
	assert.Equal(t, float64(4), attributes["total"])
	assert.Equal(t, 0.25, attributes["progress"])
	assert.Equal(t, "mdi:account-voice", attributes["icon"])

	// Same state again is answered from the dead zone.
	require.NoError(t, instance.Ensure(signal.NewContext(speaking)))
	_, posts = server.snapshot()
	assert.Equal(t, 1, posts)

	answering := speaking
	answering.Phase = session.PhaseAwaitingAnswer
	answering.Remaining = 42
	require.NoError(t, instance.Ensure(signal.NewContext(answering)))
	entity, posts = server.snapshot()
	assert.Equal(t, 2, posts)
	assert.Equal(t, "answering", entity["state"])
	assert.Equal(t, "mdi:account-voice", entity["attributes"].(map[string]any)["icon"])
}

func TestHomeassistant_Ensure_withoutDeadZone(t *testing.T) {
	server := newFakeServer(t, "secret")
	conf := Configuration{
		Server:   server.URL,
		Token:    "secret",
		EntityId: "sensor.test",
	}
	instance := &Homeassistant{}
	require.NoError(t, instance.Initialize(&conf, func() error { return nil }))

	off := session.Snapshot{}
	require.NoError(t, instance.Ensure(signal.NewContext(off)))
	require.NoError(t, instance.Ensure(signal.NewContext(off)))

	// The second call compares with the remote entity and finds it equal.
	entity, posts := server.snapshot()
	assert.Equal(t, 1, posts)
	assert.Equal(t, "off", entity["state"])
}

func TestHomeassistant_GetType(t *testing.T) {
	assert.Equal(t, signal.TypeHomeAssistant, (&Homeassistant{}).GetType())
}

func TestNormalizeEntityIdPrefix(t *testing.T) {
	assert.Equal(t, "my_computer_local", normalizeEntityIdPrefix(" My-Computer.local "))
	assert.Equal(t, "a_b", normalizeEntityIdPrefix("a#b"))
}
