package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
)

// Repository absorbs API failures into safe defaults.
type Repository struct {
	api    *API
	logger *slog.Logger
	Orders *resource.Repository[domain.Order]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{api: api, logger: logger, Orders: resource.NewRepository(api.Orders, logger)}
}

// Get returns the order with docEntry, or nil.
func (r *Repository) Get(ctx context.Context, docEntry int64) resource.Result[*domain.Order] {
	return r.Orders.Get(ctx, Key(docEntry))
}

// ByStatus lists the orders in one status, newest first.
func (r *Repository) ByStatus(ctx context.Context, status domain.OrderStatus) resource.Result[[]domain.Order] {
	return resource.CollectList(ctx, r.logger, domain.PathOrders, "by status", func(ctx context.Context) ([]domain.Order, error) {
		return r.api.ByStatus(ctx, status)
	})
}

// ByPOS lists the orders of one point of sale, newest first.
func (r *Repository) ByPOS(ctx context.Context, posCode string) resource.Result[[]domain.Order] {
	return resource.CollectList(ctx, r.logger, domain.PathOrders, "by pos", func(ctx context.Context) ([]domain.Order, error) {
		return r.api.ByPOS(ctx, posCode)
	})
}

// ByCustomer lists the orders of one customer, newest first.
func (r *Repository) ByCustomer(ctx context.Context, customerCode string) resource.Result[[]domain.Order] {
	return resource.CollectList(ctx, r.logger, domain.PathOrders, "by customer", func(ctx context.Context) ([]domain.Order, error) {
		return r.api.ByCustomer(ctx, customerCode)
	})
}

// SetStatus reports whether the order moved to status.
func (r *Repository) SetStatus(ctx context.Context, docEntry int64, status domain.OrderStatus) resource.Result[bool] {
	return resource.CollectDone(ctx, r.logger, domain.PathOrders, "set status", func(ctx context.Context) error {
		return r.api.SetStatus(ctx, docEntry, status)
	})
}

// NewOrder returns an empty pending order for posCode. The backend assigns
// DocEntry and CreatedAt.
func NewOrder(posCode string) domain.Order {
	return domain.Order{POSCode: posCode, Status: domain.OrderPending, DocTotal: decimal.Zero, Lines: []domain.OrderLine{}}
}

// Recalculate numbers the lines from 1, sets each line total to quantity
// times price and sets the document total to their sum.
func Recalculate(o *domain.Order) {
	total := decimal.Zero
	for i := range o.Lines {
		l := &o.Lines[i]
		l.LineNum = i + 1
		l.LineTotal = l.Quantity.Mul(l.Price)
		total = total.Add(l.LineTotal)
	}
	o.DocTotal = total
}

// StatusSeverity returns the tag severity of the order's status.
func StatusSeverity(o domain.Order) string {
	return pkg.OrderStatusSeverity(o.Status)
}

// OrdersCSV renders orders as CSV text, one row per order.
func OrdersCSV(items []domain.Order) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		rows = append(rows, []string{
			Key(o.DocEntry), o.DocNum, o.POSCode, o.CustomerCode,
			string(o.Status), o.DocTotal.StringFixed(2),
			o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return pkg.WriteCSV([]string{"DocEntry", "DocNum", "POS", "Customer", "Status", "Total", "Created"}, rows)
}
