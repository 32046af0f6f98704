package resource

import (
	"context"
	"log/slog"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Outcome tags how a repository call ended.
type Outcome int

const (
	// OK means the call succeeded with a value.
	OK Outcome = iota
	// Empty means the call succeeded but found nothing: an empty list or a
	// missing row.
	Empty
	// Failed means the call failed; Value holds the safe default.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result carries a value that is always safe to use together with the
// outcome that produced it. Err is set only when Outcome is Failed.
type Result[V any] struct {
	Value   V
	Outcome Outcome
	Err     error
}

// OK reports whether the call succeeded with a value.
func (r Result[V]) OK() bool { return r.Outcome == OK }

// Failed reports whether the call failed.
func (r Result[V]) Failed() bool { return r.Outcome == Failed }

// Logger is what the absorb helpers need to report failures.
type Logger interface {
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// CollectList runs a list call. A failure yields an empty, non-nil slice.
func CollectList[V any](ctx context.Context, log Logger, resource, op string, call func(context.Context) ([]V, error)) Result[[]V] {
	items, err := call(ctx)
	if err != nil {
		logFailure(ctx, log, resource, op, err)
		return Result[[]V]{Value: []V{}, Outcome: Failed, Err: err}
	}
	if len(items) == 0 {
		return Result[[]V]{Value: []V{}, Outcome: Empty}
	}
	return Result[[]V]{Value: items, Outcome: OK}
}

// CollectPage runs a paged call. A failure yields an empty first-page envelope.
func CollectPage[V any](ctx context.Context, log Logger, resource, op string, req domain.PageRequest, call func(context.Context) (*domain.PagedResponse[V], error)) Result[*domain.PagedResponse[V]] {
	page, err := call(ctx)
	if err != nil {
		logFailure(ctx, log, resource, op, err)
		n := req.Normalize()
		return Result[*domain.PagedResponse[V]]{Value: domain.NewPagedResponse[V](nil, 0, n.Page, n.PageSize), Outcome: Failed, Err: err}
	}
	if len(page.Data) == 0 {
		return Result[*domain.PagedResponse[V]]{Value: page, Outcome: Empty}
	}
	return Result[*domain.PagedResponse[V]]{Value: page, Outcome: OK}
}

// CollectOne runs a single-row call. A missing row is Empty; any other
// failure is Failed. Both yield nil.
func CollectOne[V any](ctx context.Context, log Logger, resource, op string, call func(context.Context) (*V, error)) Result[*V] {
	v, err := call(ctx)
	switch {
	case domain.IsNotFound(err):
		return Result[*V]{Outcome: Empty}
	case err != nil:
		logFailure(ctx, log, resource, op, err)
		return Result[*V]{Outcome: Failed, Err: err}
	case v == nil:
		return Result[*V]{Outcome: Empty}
	}
	return Result[*V]{Value: v, Outcome: OK}
}

// CollectDone runs a call without a result. Value is true on success.
func CollectDone(ctx context.Context, log Logger, resource, op string, call func(context.Context) error) Result[bool] {
	if err := call(ctx); err != nil {
		logFailure(ctx, log, resource, op, err)
		return Result[bool]{Value: false, Outcome: Failed, Err: err}
	}
	return Result[bool]{Value: true, Outcome: OK}
}

func logFailure(ctx context.Context, log Logger, resource, op string, err error) {
	log.ErrorContext(ctx, "api call failed",
		slog.String("resource", resource),
		slog.String("op", op),
		slog.Int("code", domain.ErrorCode(err)),
		slog.Any("error", err),
	)
}
