package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type (
	loggerKey struct{}
	eventKey  struct{}
)

// Event collects fields for the single log line emitted at the end of a request.
type Event struct {
	mu     sync.Mutex
	fields []zap.Field
}

// Add appends fields to the event. Safe on a nil Event.
func (e *Event) Add(fields ...zap.Field) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.fields = append(e.fields, fields...)
	e.mu.Unlock()
}

// Fields returns a copy of the collected fields.
func (e *Event) Fields() []zap.Field {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]zap.Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ContextWithEvent attaches a fresh request event to ctx.
func ContextWithEvent(ctx context.Context) (context.Context, *Event) {
	e := &Event{}
	return context.WithValue(ctx, eventKey{}, e), e
}

// AddFields records fields on the request event in ctx, if any.
func AddFields(ctx context.Context, fields ...zap.Field) {
	e, _ := ctx.Value(eventKey{}).(*Event)
	e.Add(fields...)
}
