package domain

import (
	"encoding/json"
	"fmt"
)

// PagedResponse is the envelope returned by every paginated list endpoint.
type PagedResponse[T any] struct {
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}

// NewPagedResponse builds an envelope whose TotalPages follows
// max(1, ceil(total/pageSize)). A nil items slice becomes empty.
func NewPagedResponse[T any](items []T, total, page, pageSize int) *PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	if page < 1 {
		page = DefaultPage
	}
	return &PagedResponse[T]{
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
		Data:       items,
	}
}

// TotalPages returns max(1, ceil(total/pageSize)). A non-positive pageSize
// yields 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Validate reports the first envelope invariant the response violates.
func (p *PagedResponse[T]) Validate() error {
	switch {
	case p.PageNumber < 1:
		return NewAppError(CodeValidation, fmt.Sprintf("pageNumber %d must be at least 1", p.PageNumber), nil)
	case p.PageSize < 1:
		return NewAppError(CodeValidation, fmt.Sprintf("pageSize %d must be at least 1", p.PageSize), nil)
	case p.TotalCount < 0:
		return NewAppError(CodeValidation, fmt.Sprintf("totalCount %d must not be negative", p.TotalCount), nil)
	case len(p.Data) > p.PageSize:
		return NewAppError(CodeValidation, fmt.Sprintf("page holds %d rows, more than pageSize %d", len(p.Data), p.PageSize), nil)
	case p.TotalCount == 0 && len(p.Data) > 0:
		return NewAppError(CodeValidation, "totalCount is 0 but the page holds rows", nil)
	case p.TotalPages != TotalPages(p.TotalCount, p.PageSize):
		return NewAppError(CodeValidation, fmt.Sprintf("totalPages %d, want %d", p.TotalPages, TotalPages(p.TotalCount, p.PageSize)), nil)
	}
	return nil
}

// UnmarshalJSON decodes the envelope and replaces a null data array with an
// empty slice.
func (p *PagedResponse[T]) UnmarshalJSON(b []byte) error {
	type envelope PagedResponse[T]
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	if e.Data == nil {
		e.Data = []T{}
	}
	*p = PagedResponse[T](e)
	return nil
}
