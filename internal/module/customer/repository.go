package customer

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
)

// Repository absorbs API failures into safe defaults.
type Repository struct {
	api       *API
	logger    *slog.Logger
	Customers *resource.Repository[domain.Customer]
	Groups    *resource.Repository[domain.CustomerGroup]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:       api,
		logger:    logger,
		Customers: resource.NewRepository(api.Customers, logger),
		Groups:    resource.NewRepository(api.Groups, logger),
	}
}

// ByGroup lists the customers of one group.
func (r *Repository) ByGroup(ctx context.Context, groupCode string) resource.Result[[]domain.Customer] {
	return resource.CollectList(ctx, r.logger, domain.PathCustomers, "by group", func(ctx context.Context) ([]domain.Customer, error) {
		return r.api.ByGroup(ctx, groupCode)
	})
}

// EnabledGroups lists the assignable groups.
func (r *Repository) EnabledGroups(ctx context.Context) resource.Result[[]domain.CustomerGroup] {
	return resource.CollectList(ctx, r.logger, domain.PathCustomerGroups, "enabled", r.api.EnabledGroups)
}

// NewCustomer returns the defaults of a new-customer form.
func NewCustomer() domain.Customer {
	return domain.Customer{CustomerCode: pkg.GenerateCode("CUS"), Enabled: true}
}

// NewGroup returns the defaults of a new-group form.
func NewGroup() domain.CustomerGroup {
	return domain.CustomerGroup{GroupCode: pkg.GenerateCode("CG"), Enabled: true}
}

var customerColumns = []string{"Code", "Name", "Group", "Phone", "Email", "Discount", "Status"}

// CustomersCSV renders customers as CSV text.
func CustomersCSV(items []domain.Customer) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.CustomerCode, c.CustomerName, c.GroupCode, c.Phone, c.Email,
			strconv.FormatFloat(c.Discount, 'f', -1, 64),
			pkg.StatusLabel(bool(c.Enabled)),
		})
	}
	return pkg.WriteCSV(customerColumns, rows)
}

var groupColumns = []string{"Code", "Name", "Discount", "Status"}

// GroupsCSV renders customer groups as CSV text.
func GroupsCSV(items []domain.CustomerGroup) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{
			g.GroupCode, g.GroupName,
			strconv.FormatFloat(g.Discount, 'f', -1, 64),
			pkg.StatusLabel(bool(g.Enabled)),
		})
	}
	return pkg.WriteCSV(groupColumns, rows)
}
