package transport

import (
	"context"

	"github.com/simp-lee/posadmin/internal/domain"
)

// Get fetches endpoint and decodes the response as T.
func Get[T any](ctx context.Context, c *Client, endpoint string, params Params) (T, error) {
	var out T
	err := c.Get(ctx, endpoint, params, &out)
	return out, err
}

// GetPaginated fetches a paged envelope. A response that breaks the envelope
// invariants is logged and returned unchanged.
func GetPaginated[T any](ctx context.Context, c *Client, endpoint string, params Params) (*domain.PagedResponse[T], error) {
	var out domain.PagedResponse[T]
	if err := c.Get(ctx, endpoint, params, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		c.logger.WarnContext(ctx, "nonconformant paged response", "endpoint", endpoint, "error", err)
	}
	return &out, nil
}

// Post sends body and decodes the response as T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any, params Params) (T, error) {
	var out T
	err := c.Post(ctx, endpoint, body, params, &out)
	return out, err
}

// Put sends body and decodes the response as T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any, params Params) (T, error) {
	var out T
	err := c.Put(ctx, endpoint, body, params, &out)
	return out, err
}

// Patch sends body and decodes the response as T.
func Patch[T any](ctx context.Context, c *Client, endpoint string, body any, params Params) (T, error) {
	var out T
	err := c.Patch(ctx, endpoint, body, params, &out)
	return out, err
}

// Delete sends a DELETE and decodes the response as T.
func Delete[T any](ctx context.Context, c *Client, endpoint string, params Params) (T, error) {
	var out T
	err := c.Delete(ctx, endpoint, params, &out)
	return out, err
}

// Upload posts file and decodes the response as T.
func Upload[T any](ctx context.Context, c *Client, endpoint string, file File, fields map[string]string) (T, error) {
	var out T
	err := c.Upload(ctx, endpoint, file, fields, &out)
	return out, err
}

// UploadMultiple posts files and decodes the response as T.
func UploadMultiple[T any](ctx context.Context, c *Client, endpoint string, files []File, fields map[string]string) (T, error) {
	var out T
	err := c.UploadMultiple(ctx, endpoint, files, fields, &out)
	return out, err
}
