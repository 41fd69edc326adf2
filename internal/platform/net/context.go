// Package net holds transport-neutral request context and the response envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type (
	callerKey struct{}
	slotKey   struct{}
)

type callerSlot struct{ name string }

// RequestID returns the id chi's RequestID middleware put on ctx
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithRequestID puts id where RequestID finds it
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// TrackCaller lets an outer middleware see the caller an inner one records
func TrackCaller(ctx context.Context) context.Context {
	return context.WithValue(ctx, slotKey{}, &callerSlot{})
}

// WithCaller records who an authenticated request came from
func WithCaller(ctx context.Context, caller string) context.Context {
	if caller == "" {
		return ctx
	}
	if slot, ok := ctx.Value(slotKey{}).(*callerSlot); ok {
		slot.name = caller
	}
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the authenticated caller, or ""
func Caller(ctx context.Context) string {
	if s, ok := ctx.Value(callerKey{}).(string); ok {
		return s
	}
	if slot, ok := ctx.Value(slotKey{}).(*callerSlot); ok {
		return slot.name
	}
	return ""
}
