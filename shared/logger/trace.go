package logger

import (
	"context"
	"time"
)

// SlowCallThreshold is the duration after which a traced call is reported at warn level.
var SlowCallThreshold = 100 * time.Millisecond

// Trace runs fn and logs its start, its duration and its failure, if any.
// The result and the error of fn are returned untouched.
func Trace[T any](ctx context.Context, op string, fn func() (T, error), args ...any) (T, error) {
	log := Log.With("op", op)
	log.DebugContext(ctx, "call started", args...)

	start := time.Now()
	res, err := fn()
	elapsed := time.Since(start)

	if err != nil {
		log.ErrorContext(ctx, "call failed", "duration", elapsed, "error", err)
	} else {
		log.DebugContext(ctx, "call finished", "duration", elapsed)
	}
	if elapsed > SlowCallThreshold {
		log.WarnContext(ctx, "slow call", "duration", elapsed)
	}
	return res, err
}

// TraceErr is Trace for functions that only return an error.
func TraceErr(ctx context.Context, op string, fn func() error, args ...any) error {
	_, err := Trace(ctx, op, func() (struct{}, error) {
		return struct{}{}, fn()
	}, args...)
	return err
}
