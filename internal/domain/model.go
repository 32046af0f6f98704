package domain

import "time"

// BaseModel is the common base struct for locally persisted models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest holds pagination, sorting, and filtering parameters for a
// paginated list call.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
	Filter   map[string]any
}

// Normalize clamps Page and PageSize into their valid ranges.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// Query returns the request as query parameters. Filter entries are copied
// as-is; omission of empty values is left to the transport layer.
// Reserved keys (pageNumber, pageSize, sort) always win over filter entries.
func (r PageRequest) Query() map[string]any {
	n := r.Normalize()
	q := make(map[string]any, len(n.Filter)+3)
	for k, v := range n.Filter {
		q[k] = v
	}
	q["pageNumber"] = n.Page
	q["pageSize"] = n.PageSize
	q["sort"] = n.Sort
	return q
}
