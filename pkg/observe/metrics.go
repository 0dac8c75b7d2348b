// Package observe provides the metrics of practice sessions. They are
// recorded through the OpenTelemetry Metrics API and can be scraped by
// Prometheus if a listen address is configured.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/blaubaer/talk-practice"

const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventStopped   = "stopped"

	StatusOk       = "ok"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// Metrics holds all instruments. A nil *Metrics records nothing.
type Metrics struct {
	// Sessions counts session lifecycle events. Attributes: lesson, event.
	Sessions metric.Int64Counter

	// ActiveSessions is 1 while a session is running.
	ActiveSessions metric.Int64UpDownCounter

	// Questions counts questions which were read aloud. Attribute: lesson.
	Questions metric.Int64Counter

	// SpeechDuration tracks how long reading a question took. Attribute:
	// status.
	SpeechDuration metric.Float64Histogram

	// AnswerPhases counts started answer countdowns. Attribute: lesson.
	AnswerPhases metric.Int64Counter

	// Pauses counts how often a running session was paused.
	Pauses metric.Int64Counter
}

var speechBuckets = []float64{
	0.5, 1, 2, 3, 5, 8, 13, 20, 30,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	result := &Metrics{}

	if result.Sessions, err = m.Int64Counter("talk_practice.sessions",
		metric.WithDescription("Practice session events by lesson and event."),
	); err != nil {
		return nil, err
	}
	if result.ActiveSessions, err = m.Int64UpDownCounter("talk_practice.active_sessions",
		metric.WithDescription("Number of currently running practice sessions."),
	); err != nil {
		return nil, err
	}
	if result.Questions, err = m.Int64Counter("talk_practice.questions",
		metric.WithDescription("Questions read aloud by lesson."),
	); err != nil {
		return nil, err
	}
	if result.SpeechDuration, err = m.Float64Histogram("talk_practice.speech.duration",
		metric.WithDescription("Time it took to read a question aloud."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(speechBuckets...),
	); err != nil {
		return nil, err
	}
	if result.AnswerPhases, err = m.Int64Counter("talk_practice.answer_phases",
		metric.WithDescription("Started answer countdowns by lesson."),
	); err != nil {
		return nil, err
	}
	if result.Pauses, err = m.Int64Counter("talk_practice.pauses",
		metric.WithDescription("How often running sessions were paused."),
	); err != nil {
		return nil, err
	}

	return result, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the metrics using the global meter provider. It has
// to be called after Provider.Initialize, otherwise all values end up in the
// no-op provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func (this *Metrics) RecordSessionStarted(ctx context.Context, lesson string) {
	if this == nil {
		return
	}
	this.Sessions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lesson", lesson),
		attribute.String("event", EventStarted),
	))
	this.ActiveSessions.Add(ctx, 1)
}

// RecordSessionEnded records either EventCompleted or EventStopped.
func (this *Metrics) RecordSessionEnded(ctx context.Context, lesson, event string) {
	if this == nil {
		return
	}
	this.Sessions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lesson", lesson),
		attribute.String("event", event),
	))
	this.ActiveSessions.Add(ctx, -1)
}

func (this *Metrics) RecordQuestion(ctx context.Context, lesson string) {
	if this == nil {
		return
	}
	this.Questions.Add(ctx, 1, metric.WithAttributes(attribute.String("lesson", lesson)))
}

func (this *Metrics) RecordSpeech(ctx context.Context, seconds float64, status string) {
	if this == nil {
		return
	}
	this.SpeechDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("status", status)))
}

func (this *Metrics) RecordAnswerPhase(ctx context.Context, lesson string) {
	if this == nil {
		return
	}
	this.AnswerPhases.Add(ctx, 1, metric.WithAttributes(attribute.String("lesson", lesson)))
}

func (this *Metrics) RecordPause(ctx context.Context) {
	if this == nil {
		return
	}
	this.Pauses.Add(ctx, 1)
}
