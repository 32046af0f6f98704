package pkg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/domain"
)

// reservedParams lists query parameter names used for pagination/sorting, not for filtering.
var reservedParams = map[string]bool{
	"pageNumber": true,
	"pageSize":   true,
	"sort":       true,
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest extracts pagination, sorting, and filtering parameters from
// query params. Every non-reserved parameter becomes an exact-match filter on
// its first value.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("pageNumber", strconv.Itoa(domain.DefaultPage)))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(domain.DefaultPageSize)))

	filter := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	req := domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.Query("sort"),
		Filter:   filter,
	}
	return req.Normalize()
}

// ParseSort splits a "field:asc|desc" sort expression. ok is false for
// malformed expressions and field names outside [a-zA-Z0-9_].
func ParseSort(expr string) (field string, desc bool, ok bool) {
	name, dir, found := strings.Cut(expr, ":")
	name = strings.TrimSpace(name)
	if !validFieldName.MatchString(name) {
		return "", false, false
	}
	if !found {
		return name, false, true
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return name, false, true
	case "desc":
		return name, true, true
	default:
		return "", false, false
	}
}

// Paginate cuts the requested page out of items and wraps it in a paged
// envelope. Pages past the end are empty.
func Paginate[T any](items []T, req domain.PageRequest) *domain.PagedResponse[T] {
	req = req.Normalize()
	total := len(items)
	start := total
	if req.Page-1 < total/req.PageSize+1 {
		start = min((req.Page-1)*req.PageSize, total)
	}
	end := min(start+req.PageSize, total)
	return domain.NewPagedResponse(items[start:end], total, req.Page, req.PageSize)
}
