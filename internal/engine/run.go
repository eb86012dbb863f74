package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/lepinkainen/shelf/internal/errors"
	"github.com/lepinkainen/shelf/internal/notify"
)

// operation describes one intent. start, succeed and fail run under the
// state lock; call runs without it. succeed and fail report whether the
// outcome was applied; superseded outcomes are dropped silently.
type operation[T any] struct {
	name     string
	fallback string
	success  string

	start   func()
	call    func(context.Context) (T, error)
	succeed func(T) bool
	fail    func(error) bool
}

func run[T any](ctx context.Context, e *Engine, op operation[T]) {
	log := e.logger.With("op", op.name, "op_id", uuid.NewString())

	if op.start != nil {
		e.update(op.start)
	}
	log.Debug("Operation started")

	result, err := op.call(ctx)
	if err != nil {
		applied := true
		e.update(func() { applied = op.fail(err) })
		if !applied {
			log.Debug("Discarding superseded failure", "error", err)
			return
		}
		log.Warn("Operation failed", "error", err, "kind", errors.KindOf(err))
		e.notifier.Notify(notify.Notification{
			Message:  errors.Message(err, op.fallback),
			Severity: notify.SeverityError,
		})
		return
	}

	applied := true
	e.update(func() { applied = op.succeed(result) })
	if !applied {
		log.Debug("Discarding superseded response")
		return
	}
	log.Debug("Operation finished")
	if op.success != "" {
		e.notifier.Notify(notify.Notification{Message: op.success, Severity: notify.SeveritySuccess})
	}
}

func always[T any](fn func(T)) func(T) bool {
	return func(v T) bool {
		fn(v)
		return true
	}
}
