package mocks

import (
	"context"

	"travel/infras/otel"
)

type noopOtel struct{}

// NewOtel returns an otel.Otel that records nothing.
func NewOtel() otel.Otel {
	return noopOtel{}
}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (noopOtel) Shutdown(context.Context) error {
	return nil
}
