// Package catalog manages the two levels above products: product groups
// and the categories inside them.
package catalog

import (
	"context"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the catalog resources to a transport client.
type API struct {
	Groups     *resource.Client[domain.ProductGroup]
	Categories *resource.Client[domain.ProductCategory]
}

// NewAPI returns the catalog API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{
		Groups:     resource.NewClient[domain.ProductGroup](tc, domain.PathProductGroups),
		Categories: resource.NewClient[domain.ProductCategory](tc, domain.PathProductCategories),
	}
}

// CategoriesByGroup lists the categories of one group in display order.
func (a *API) CategoriesByGroup(ctx context.Context, groupCode string) ([]domain.ProductCategory, error) {
	return a.Categories.QueryList(ctx, resource.AllSuffix, transport.Params{
		"groupCode": groupCode,
		"sort":      "displayOrder:asc",
	})
}
