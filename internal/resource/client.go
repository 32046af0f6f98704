// Package resource binds the transport to one REST resource. Client[T] is
// the paginated CRUD contract every entity shares; Repository[T] wraps it so
// callers receive outcome-tagged results instead of errors.
package resource

import (
	"context"
	"net/url"
	"strings"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/transport"
)

// AllSuffix is the sub-path of the unpaginated list endpoint.
const AllSuffix = "all"

// Client is the CRUD client of one resource rooted at a path prefix such as
// "api/products".
type Client[T any] struct {
	tc     *transport.Client
	prefix string
}

// NewClient returns a Client for the resource at prefix.
func NewClient[T any](tc *transport.Client, prefix string) *Client[T] {
	return &Client[T]{tc: tc, prefix: strings.Trim(prefix, "/")}
}

// Prefix returns the resource path prefix.
func (c *Client[T]) Prefix() string {
	return c.prefix
}

// Transport returns the underlying transport client.
func (c *Client[T]) Transport() *transport.Client {
	return c.tc
}

// Path joins the prefix with path-escaped segments.
func (c *Client[T]) Path(segments ...string) string {
	var sb strings.Builder
	sb.WriteString(c.prefix)
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}

// GetAll returns every row from the unpaginated "<prefix>/all" endpoint.
func (c *Client[T]) GetAll(ctx context.Context) ([]T, error) {
	return c.QueryList(ctx, AllSuffix, nil)
}

// GetPaged returns one page of the resource root.
func (c *Client[T]) GetPaged(ctx context.Context, req domain.PageRequest) (*domain.PagedResponse[T], error) {
	return transport.GetPaginated[T](ctx, c.tc, c.prefix, transport.Params(req.Query()))
}

// GetByCode returns the row keyed by code.
func (c *Client[T]) GetByCode(ctx context.Context, code string) (*T, error) {
	var out T
	if err := c.tc.Get(ctx, c.Path(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create validates dto, posts it to the resource root and returns the created row.
func (c *Client[T]) Create(ctx context.Context, dto any) (*T, error) {
	if err := pkg.Validate(dto); err != nil {
		return nil, err
	}
	var out T
	if err := c.tc.Post(ctx, c.prefix, dto, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update validates dto and replaces the row keyed by code. The response body is ignored.
func (c *Client[T]) Update(ctx context.Context, code string, dto any) error {
	if err := pkg.Validate(dto); err != nil {
		return err
	}
	return c.tc.Put(ctx, c.Path(code), dto, nil, nil)
}

// Delete removes the row keyed by code. The response body is ignored.
func (c *Client[T]) Delete(ctx context.Context, code string) error {
	return c.tc.Delete(ctx, c.Path(code), nil, nil)
}

// Query issues a GET below the prefix that returns a single row. An empty
// sub queries the resource root.
func (c *Client[T]) Query(ctx context.Context, sub string, params transport.Params) (*T, error) {
	var out T
	if err := c.tc.Get(ctx, c.subPath(sub), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryList issues a GET below the prefix that returns a bare array. A null
// body yields an empty slice.
func (c *Client[T]) QueryList(ctx context.Context, sub string, params transport.Params) ([]T, error) {
	var out []T
	if err := c.tc.Get(ctx, c.subPath(sub), params, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// subPath appends sub verbatim; callers escape their own dynamic segments.
func (c *Client[T]) subPath(sub string) string {
	sub = strings.Trim(sub, "/")
	if sub == "" {
		return c.prefix
	}
	return c.prefix + "/" + sub
}
