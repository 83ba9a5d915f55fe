package events

import (
	"context"
	"errors"
)

// Emitter delivers roster events (e.g. to Kafka or OTel Logs). Best-effort; callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Multi fans an event out to every emitter and joins their errors.
type Multi []Emitter

// Emit calls Emit on each non-nil emitter, even after a failure.
func (m Multi) Emit(ctx context.Context, event *Event) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
