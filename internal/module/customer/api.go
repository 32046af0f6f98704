// Package customer manages customers and the customer groups that carry
// their default discount.
package customer

import (
	"context"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the customer resources to a transport client.
type API struct {
	Customers *resource.Client[domain.Customer]
	Groups    *resource.Client[domain.CustomerGroup]
}

// NewAPI returns the customer API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{
		Customers: resource.NewClient[domain.Customer](tc, domain.PathCustomers),
		Groups:    resource.NewClient[domain.CustomerGroup](tc, domain.PathCustomerGroups),
	}
}

// ByGroup lists the customers of one group.
func (a *API) ByGroup(ctx context.Context, groupCode string) ([]domain.Customer, error) {
	return a.Customers.QueryList(ctx, resource.AllSuffix, transport.Params{"groupCode": groupCode})
}

// EnabledGroups lists the groups that can be assigned to a customer.
func (a *API) EnabledGroups(ctx context.Context) ([]domain.CustomerGroup, error) {
	return a.Groups.QueryList(ctx, resource.AllSuffix, transport.Params{"enabled": domain.FlagYes})
}
