package otel

import (
	"context"
	"encoding/json"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"ics-roster/internal/events"
)

const loggerName = "ics-roster.events"

// NewEventEmitter returns an events.Emitter that sends roster events as OTel log records
// via provider. A nil provider yields a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) events.Emitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &logEmitter{logger: provider.Logger(loggerName)}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *events.Event) error { return nil }

// recordEmitter is the part of otellog.Logger used by logEmitter.
type recordEmitter interface {
	Emit(ctx context.Context, record otellog.Record)
}

type logEmitter struct {
	logger recordEmitter
}

// Emit converts the event to a log record: the JSON event as body, identifiers as attributes.
func (e *logEmitter) Emit(ctx context.Context, event *events.Event) error {
	if event == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var rec otellog.Record
	rec.SetBody(otellog.BytesValue(body))
	rec.SetSeverity(otellog.SeverityInfo)
	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.AddAttributes(
		otellog.String("event_id", event.ID),
		otellog.String("event_type", string(event.Type)),
	)
	if event.PersonID != "" {
		rec.AddAttributes(otellog.String("person_id", event.PersonID))
	}
	if event.CertificationID != "" {
		rec.AddAttributes(otellog.String("certification_id", event.CertificationID))
	}
	if event.CourseID != "" {
		rec.AddAttributes(otellog.String("course_id", event.CourseID))
	}
	if event.Status != "" {
		rec.AddAttributes(otellog.String("status", event.Status))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
