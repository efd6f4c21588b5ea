// Package pipeline feeds events to an applier: interceptors wrap every call and the
// Dispatcher runs one serial worker per partition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/event"
)

// ErrPanic is returned when applying an event panicked.
var ErrPanic = errors.New("apply panicked")

// Applier applies one event to the cache. *service.Synchronizer implements it.
type Applier interface {
	Apply(ctx context.Context, e event.Event) error
}

// ApplyFunc adapts a function to Applier.
type ApplyFunc func(ctx context.Context, e event.Event) error

// Apply calls f.
func (f ApplyFunc) Apply(ctx context.Context, e event.Event) error { return f(ctx, e) }

// Interceptor runs around an apply call; it must call next to continue.
type Interceptor func(ctx context.Context, e event.Event, next ApplyFunc) error

// Chain wraps a with interceptors. The first interceptor is the outermost.
func Chain(a Applier, ics ...Interceptor) Applier {
	next := ApplyFunc(a.Apply)
	for i := len(ics) - 1; i >= 0; i-- {
		ic, inner := ics[i], next
		next = func(ctx context.Context, e event.Event) error { return ic(ctx, e, inner) }
	}
	return next
}

// Logging returns an interceptor for structured logging. Payloads are never logged.
func Logging(log *zap.Logger) Interceptor {
	return func(ctx context.Context, e event.Event, next ApplyFunc) error {
		start := time.Now()
		err := next(ctx, e)
		fields := []zap.Field{
			zap.String("type", string(e.Type)),
			zap.Uint64("partition", uint64(e.Partition())),
			zap.Duration("dur", time.Since(start)),
		}
		if err != nil {
			log.Error("apply", append(fields, zap.Error(err))...)
			return err
		}
		log.Debug("apply", fields...)
		return nil
	}
}

// Recover returns an interceptor that turns a panic into an ErrPanic error.
func Recover(log *zap.Logger) Interceptor {
	return func(ctx context.Context, e event.Event, next ApplyFunc) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("type", string(e.Type)),
				)
				err = fmt.Errorf("%s: %w: %v", e.Type, ErrPanic, r)
			}
		}()
		return next(ctx, e)
	}
}
