package stage

import (
	"context"
	"log/slog"
)

// Handler describes the contract the pipeline runner needs from each stage.
type Handler interface {
	Name() string
	Prepare(context.Context) error
	Execute(context.Context) error
	HealthCheck(context.Context) Health
}

// LoggerAware is implemented by stages that accept a run-scoped logger before
// they execute.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
