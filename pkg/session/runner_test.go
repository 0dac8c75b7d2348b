package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/talk-practice/pkg/lesson"
)

func startRunner(t *testing.T, provider lesson.Provider) (*Runner, *fakeSpeech, *manualClock) {
	t.Helper()
	svc := &fakeSpeech{}
	clock := newManualClock()
	instance := NewRunner(NewController(svc, clock, nil), provider)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- instance.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("runner did not stop")
		}
	})
	return instance, svc, clock
}

func awaitSnapshot(t *testing.T, instance *Runner, condition func(Snapshot) bool) Snapshot {
	t.Helper()
	var result Snapshot
	require.Eventually(t, func() bool {
		s, err := instance.Snapshot(context.Background())
		if err != nil {
			return false
		}
		result = s
		return condition(s)
	}, 5*time.Second, time.Millisecond)
	return result
}

func TestRunner_session(t *testing.T) {
	doc := newDocument(3, "q0", "q1")
	instance, svc, clock := startRunner(t, providerFunc(func(context.Context) (*lesson.Document, error) {
		return doc, nil
	}))
	ctx := context.Background()

	awaitSnapshot(t, instance, func(s Snapshot) bool { return s.ConfigurationLoaded })

	require.NoError(t, instance.Do(ctx, func(c *Controller) error { return c.SelectLesson("1") }))
	require.NoError(t, instance.Do(ctx, (*Controller).Start))
	assert.ErrorIs(t, instance.Do(ctx, (*Controller).Start), ErrAlreadyRunning)

	for i := 0; i < 2; i++ {
		awaitSnapshot(t, instance, func(s Snapshot) bool {
			return s.Phase == PhaseSpeaking && s.QuestionIndex == i
		})
		svc.finish(nil)
		awaitSnapshot(t, instance, func(s Snapshot) bool { return s.Phase == PhaseAwaitingAnswer })

		ticker := clock.latest(t)
		for j := 0; j < 3; j++ {
			ticker.fire(t)
		}
	}

	s := awaitSnapshot(t, instance, func(s Snapshot) bool { return s.Phase == PhaseCompleted })
	assert.Equal(t, 2, s.QuestionIndex)
	assert.False(t, s.Running)
}

func TestRunner_Subscribe(t *testing.T) {
	instance, _, _ := startRunner(t, providerFunc(func(context.Context) (*lesson.Document, error) {
		return newDocument(50, "q0"), nil
	}))
	updates := instance.Subscribe()

	require.NoError(t, instance.Do(context.Background(), func(c *Controller) error {
		c.StepSpeed(1)
		return nil
	}))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case s := <-updates:
			if s.ConfigurationLoaded && s.Speed == 1.1 {
				return
			}
		case <-timeout:
			t.Fatal("expected snapshot was never published")
		}
	}
}

func TestRunner_Subscribe_late(t *testing.T) {
	instance, _, _ := startRunner(t, providerFunc(func(context.Context) (*lesson.Document, error) {
		return newDocument(50, "q0"), nil
	}))
	awaitSnapshot(t, instance, func(s Snapshot) bool { return s.ConfigurationLoaded })
	// The snapshot of the Snapshot call itself is published after it returned.
	require.Eventually(t, func() bool {
		instance.mutex.Lock()
		defer instance.mutex.Unlock()
		return instance.last != nil && instance.last.ConfigurationLoaded
	}, 5*time.Second, time.Millisecond)

	select {
	case s := <-instance.Subscribe():
		assert.True(t, s.ConfigurationLoaded)
	case <-time.After(5 * time.Second):
		t.Fatal("latest snapshot was not delivered")
	}
}

func TestRunner_Reload(t *testing.T) {
	var calls atomic.Int32
	instance, _, _ := startRunner(t, providerFunc(func(context.Context) (*lesson.Document, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("server not reachable")
		}
		return newDocument(50, "q0"), nil
	}))
	ctx := context.Background()

	s := awaitSnapshot(t, instance, func(s Snapshot) bool { return s.Error != "" })
	assert.False(t, s.ConfigurationLoaded)
	assert.ErrorIs(t, instance.Do(ctx, func(c *Controller) error { return c.SelectLesson("1") }), lesson.ErrConfigUnavailable)

	require.NoError(t, instance.Reload(ctx))
	awaitSnapshot(t, instance, func(s Snapshot) bool { return s.ConfigurationLoaded && s.Error == "" })
	assert.NoError(t, instance.Do(ctx, func(c *Controller) error { return c.SelectLesson("1") }))
}

func TestRunner_stops(t *testing.T) {
	svc := &fakeSpeech{}
	instance := NewRunner(NewController(svc, newManualClock(), nil), nil)
	updates := instance.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- instance.Run(ctx) }()

	_, err := instance.Snapshot(context.Background())
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)

	assert.ErrorIs(t, instance.Do(context.Background(), (*Controller).Start), ErrRunnerStopped)

	for range updates {
	}
	_, open := <-instance.Subscribe()
	assert.False(t, open)
}
