// Package composition manages what products are made of and sold with:
// ingredient trees, accompaniments and combos.
package composition

import (
	"context"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the composition resources to a transport client.
type API struct {
	Trees          *resource.Client[domain.ProductTree]
	Accompaniments *resource.Client[domain.Accompaniment]
	Combos         *resource.Client[domain.Combo]
}

// NewAPI returns the composition API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{
		Trees:          resource.NewClient[domain.ProductTree](tc, domain.PathProductTrees),
		Accompaniments: resource.NewClient[domain.Accompaniment](tc, domain.PathAccompaniments),
		Combos:         resource.NewClient[domain.Combo](tc, domain.PathCombos),
	}
}

// TreesByItem lists the ingredient trees of one product.
func (a *API) TreesByItem(ctx context.Context, itemCode string) ([]domain.ProductTree, error) {
	return a.Trees.QueryList(ctx, resource.AllSuffix, transport.Params{"itemCode": itemCode})
}

// EnabledAccompaniments lists the add-ons currently on offer.
func (a *API) EnabledAccompaniments(ctx context.Context) ([]domain.Accompaniment, error) {
	return a.Accompaniments.QueryList(ctx, resource.AllSuffix, transport.Params{"enabled": domain.FlagYes})
}

// EnabledCombos lists the combos currently on offer.
func (a *API) EnabledCombos(ctx context.Context) ([]domain.Combo, error) {
	return a.Combos.QueryList(ctx, resource.AllSuffix, transport.Params{"enabled": domain.FlagYes})
}
