// Package product manages products, the shared size list and the sized
// variants of each product.
package product

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the product resources to a transport client.
type API struct {
	tc       *transport.Client
	Products *resource.Client[domain.Product]
	Sizes    *resource.Client[domain.Size]
}

// NewAPI returns the product API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{
		tc:       tc,
		Products: resource.NewClient[domain.Product](tc, domain.PathProducts),
		Sizes:    resource.NewClient[domain.Size](tc, domain.PathSizes),
	}
}

// Variants returns the variant client of one product.
func (a *API) Variants(itemCode string) *resource.Client[domain.Variant] {
	return resource.NewClient[domain.Variant](a.tc, domain.VariantsPath(url.PathEscape(itemCode)))
}

// VariantKey formats a variant id as a path key.
func VariantKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ByGroup lists the products of one group.
func (a *API) ByGroup(ctx context.Context, groupCode string) ([]domain.Product, error) {
	return a.Products.QueryList(ctx, resource.AllSuffix, transport.Params{"groupCode": groupCode})
}

// ByCategory lists the products of one category.
func (a *API) ByCategory(ctx context.Context, categoryCode string) ([]domain.Product, error) {
	return a.Products.QueryList(ctx, resource.AllSuffix, transport.Params{"categoryCode": categoryCode})
}

// ByPriceRange lists products priced within [lo, hi]. A nil bound is open.
func (a *API) ByPriceRange(ctx context.Context, lo, hi *decimal.Decimal) ([]domain.Product, error) {
	params := transport.Params{}
	if lo != nil {
		params["minPrice"] = lo.String()
	}
	if hi != nil {
		params["maxPrice"] = hi.String()
	}
	return a.Products.QueryList(ctx, resource.AllSuffix, params)
}

// Sellable lists the enabled products that can be rung up.
func (a *API) Sellable(ctx context.Context) ([]domain.Product, error) {
	return a.Products.QueryList(ctx, resource.AllSuffix, transport.Params{
		"sellable": domain.FlagYes,
		"enabled":  domain.FlagYes,
	})
}
