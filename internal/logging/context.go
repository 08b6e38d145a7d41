package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// Structured field names shared by every layer.
const (
	FieldLayer       = "layer"
	FieldAdapter     = "adapter"
	FieldUseCase     = "usecase"
	FieldAction      = "action"
	FieldEntityID    = "entity_id"
	FieldProject     = "project"
	FieldService     = "service"
	FieldNetwork     = "network"
	FieldContainerID = "container_id"
	FieldRepository  = "repository"
	FieldUsername    = "username"
	FieldEvent       = "event"
	FieldHandler     = "handler"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatus      = "status"
	FieldDuration    = "duration"
	FieldClientIP    = "client_ip"
)

// WithLogger attaches log to ctx.
func WithLogger(ctx context.Context, log zerolog.Logger) context.Context {
	return log.WithContext(ctx)
}

// FromCtx returns the logger attached to ctx, or the default one.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// CtxWithFields returns a context whose logger carries the given fields.
func CtxWithFields(ctx context.Context, fields map[string]any) context.Context {
	log := zerolog.Ctx(ctx).With().Fields(fields).Logger()
	return log.WithContext(ctx)
}
