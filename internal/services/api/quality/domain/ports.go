package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Summary(ctx context.Context) (Summary, error)
	Issues(ctx context.Context, in IssuesInput) ([]InvalidRow, error)
	Runs(ctx context.Context, in ListInput) ([]Run, error)
	Rejections(ctx context.Context, in ListInput) ([]Rejection, error)
}
