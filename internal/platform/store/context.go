package store

import "context"

// scope is the refresh position a statement runs under, stamped onto traced queries
type scope struct {
	run   string
	stage string
}

type scopeKey struct{}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRunID tags ctx with a refresh run id
func WithRunID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.run = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithStage tags ctx with the running pipeline stage, keeping the run id
func WithStage(ctx context.Context, stage string) context.Context {
	s := scopeOf(ctx)
	s.stage = stage
	return context.WithValue(ctx, scopeKey{}, s)
}

// RunID is the run id on ctx, ok is false when there is none
func RunID(ctx context.Context) (string, bool) {
	s := scopeOf(ctx)
	return s.run, s.run != ""
}

// Stage is the stage name on ctx
func Stage(ctx context.Context) (string, bool) {
	s := scopeOf(ctx)
	return s.stage, s.stage != ""
}
