package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	eventIDKey = key("event-id")
	sourceKey  = key("event-source")
)

// WithEventID returns a context carrying id. An empty id is replaced by a
// freshly generated uuid-v4.
func WithEventID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewEventID()
	}
	return context.WithValue(ctx, eventIDKey, id)
}

// GetEventID returns the event id from context
// will return empty string if not present
func GetEventID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// WithSource returns a context tagged with the origin of the event,
// e.g. "stock-raw/2@1024" for topic/partition@offset.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetSource returns the event source from context
// will return empty string if not present
func GetSource(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	src, _ := ctx.Value(sourceKey).(string)
	return src
}

// NewEventID returns a uuid-v4 string to use as event id
func NewEventID() string {
	return uuid.NewString()
}
