package resource

import (
	"context"
	"log/slog"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/transport"
)

// Repository wraps a Client so that no call returns an error: failures are
// logged and replaced by a safe default tagged Failed.
type Repository[T any] struct {
	api    *Client[T]
	logger *slog.Logger
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository[T any](api *Client[T], logger *slog.Logger) *Repository[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository[T]{api: api, logger: logger}
}

// API returns the wrapped client.
func (r *Repository[T]) API() *Client[T] {
	return r.api
}

// Logger returns the logger failures are reported to.
func (r *Repository[T]) Logger() *slog.Logger {
	return r.logger
}

// All returns every row, or an empty slice on failure.
func (r *Repository[T]) All(ctx context.Context) Result[[]T] {
	return CollectList(ctx, r.logger, r.api.Prefix(), "all", r.api.GetAll)
}

// Page returns one page, or an empty envelope on failure.
func (r *Repository[T]) Page(ctx context.Context, req domain.PageRequest) Result[*domain.PagedResponse[T]] {
	return CollectPage(ctx, r.logger, r.api.Prefix(), "page", req, func(ctx context.Context) (*domain.PagedResponse[T], error) {
		return r.api.GetPaged(ctx, req)
	})
}

// Get returns the row keyed by code, or nil.
func (r *Repository[T]) Get(ctx context.Context, code string) Result[*T] {
	return CollectOne(ctx, r.logger, r.api.Prefix(), "get", func(ctx context.Context) (*T, error) {
		return r.api.GetByCode(ctx, code)
	})
}

// Create returns the created row, or nil on failure.
func (r *Repository[T]) Create(ctx context.Context, dto any) Result[*T] {
	return CollectOne(ctx, r.logger, r.api.Prefix(), "create", func(ctx context.Context) (*T, error) {
		return r.api.Create(ctx, dto)
	})
}

// Update reports whether the row keyed by code was replaced.
func (r *Repository[T]) Update(ctx context.Context, code string, dto any) Result[bool] {
	return CollectDone(ctx, r.logger, r.api.Prefix(), "update", func(ctx context.Context) error {
		return r.api.Update(ctx, code, dto)
	})
}

// Delete reports whether the row keyed by code was removed.
func (r *Repository[T]) Delete(ctx context.Context, code string) Result[bool] {
	return CollectDone(ctx, r.logger, r.api.Prefix(), "delete", func(ctx context.Context) error {
		return r.api.Delete(ctx, code)
	})
}

// Find runs a narrow single-row query below the prefix.
func (r *Repository[T]) Find(ctx context.Context, sub string, params transport.Params) Result[*T] {
	return CollectOne(ctx, r.logger, r.api.Prefix(), "find "+sub, func(ctx context.Context) (*T, error) {
		return r.api.Query(ctx, sub, params)
	})
}

// FindList runs a narrow list query below the prefix.
func (r *Repository[T]) FindList(ctx context.Context, sub string, params transport.Params) Result[[]T] {
	return CollectList(ctx, r.logger, r.api.Prefix(), "find "+sub, func(ctx context.Context) ([]T, error) {
		return r.api.QueryList(ctx, sub, params)
	})
}
