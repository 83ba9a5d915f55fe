package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ics-roster/internal/logging"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long commands wait before closing emitters so in-flight
// async emits can complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

var inflight sync.WaitGroup

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not blocked.
// emitter and event may be nil; then it returns immediately without starting a goroutine.
// The goroutine uses context.Background() so caller cancellation does not abort the emit.
func EmitAsync(emitter Emitter, logger *zap.Logger, event *Event) {
	if emitter == nil || event == nil {
		return
	}
	logger = logging.OrNop(logger)
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			logger.Warn("events: async emit failed",
				zap.String("type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}()
}

// Drain waits until every async emit started so far has finished, or until timeout.
// It reports whether all emits finished. Short-lived commands call it before closing emitters.
func Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
