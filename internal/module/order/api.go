// Package order reads sales orders and moves them between statuses.
package order

import (
	"context"
	"fmt"
	"strconv"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the order resource to a transport client. Orders are keyed by
// their numeric DocEntry.
type API struct {
	Orders *resource.Client[domain.Order]
}

// NewAPI returns the order API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{Orders: resource.NewClient[domain.Order](tc, domain.PathOrders)}
}

// Key formats a DocEntry as a resource key.
func Key(docEntry int64) string {
	return strconv.FormatInt(docEntry, 10)
}

// Get returns the order with docEntry.
func (a *API) Get(ctx context.Context, docEntry int64) (*domain.Order, error) {
	return a.Orders.GetByCode(ctx, Key(docEntry))
}

// ByStatus lists the orders in one status.
func (a *API) ByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return a.Orders.QueryList(ctx, resource.AllSuffix, transport.Params{"status": string(status), "sort": "docEntry:desc"})
}

// ByPOS lists the orders taken at one point of sale.
func (a *API) ByPOS(ctx context.Context, posCode string) ([]domain.Order, error) {
	return a.Orders.QueryList(ctx, resource.AllSuffix, transport.Params{"posCode": posCode, "sort": "docEntry:desc"})
}

// ByCustomer lists the orders of one customer.
func (a *API) ByCustomer(ctx context.Context, customerCode string) ([]domain.Order, error) {
	return a.Orders.QueryList(ctx, resource.AllSuffix, transport.Params{"customerCode": customerCode, "sort": "docEntry:desc"})
}

// SetStatus moves the order with docEntry to status. Any status may replace
// any other; the order is read, changed and written back whole.
func (a *API) SetStatus(ctx context.Context, docEntry int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("unknown order status %q", status), nil)
	}
	o, err := a.Get(ctx, docEntry)
	if err != nil {
		return err
	}
	o.Status = status
	return a.Orders.Update(ctx, Key(docEntry), o)
}
