package product

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/module/catalog"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
)

// Repository absorbs API failures into safe defaults. It resolves group and
// category names through the catalog repository.
type Repository struct {
	api      *API
	logger   *slog.Logger
	catalog  *catalog.Repository
	Products *resource.Repository[domain.Product]
	Sizes    *resource.Repository[domain.Size]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, cat *catalog.Repository, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:      api,
		logger:   logger,
		catalog:  cat,
		Products: resource.NewRepository(api.Products, logger),
		Sizes:    resource.NewRepository(api.Sizes, logger),
	}
}

// Variants returns the variant repository of one product.
func (r *Repository) Variants(itemCode string) *resource.Repository[domain.Variant] {
	return resource.NewRepository(r.api.Variants(itemCode), r.logger)
}

func (r *Repository) list(ctx context.Context, op string, call func(context.Context) ([]domain.Product, error)) resource.Result[[]domain.Product] {
	return resource.CollectList(ctx, r.logger, domain.PathProducts, op, call)
}

// ByGroup lists the products of one group.
func (r *Repository) ByGroup(ctx context.Context, groupCode string) resource.Result[[]domain.Product] {
	return r.list(ctx, "by group", func(ctx context.Context) ([]domain.Product, error) {
		return r.api.ByGroup(ctx, groupCode)
	})
}

// ByCategory lists the products of one category.
func (r *Repository) ByCategory(ctx context.Context, categoryCode string) resource.Result[[]domain.Product] {
	return r.list(ctx, "by category", func(ctx context.Context) ([]domain.Product, error) {
		return r.api.ByCategory(ctx, categoryCode)
	})
}

// ByPriceRange lists products priced within [lo, hi].
func (r *Repository) ByPriceRange(ctx context.Context, lo, hi *decimal.Decimal) resource.Result[[]domain.Product] {
	return r.list(ctx, "by price range", func(ctx context.Context) ([]domain.Product, error) {
		return r.api.ByPriceRange(ctx, lo, hi)
	})
}

// Sellable lists the products that can be rung up.
func (r *Repository) Sellable(ctx context.Context) resource.Result[[]domain.Product] {
	return r.list(ctx, "sellable", r.api.Sellable)
}

// View is a product with its display names and status presentation.
type View struct {
	domain.Product
	GroupName      string `json:"groupName"`
	CategoryName   string `json:"categoryName,omitempty"`
	StatusLabel    string `json:"statusLabel"`
	StatusSeverity string `json:"statusSeverity"`
}

// Views resolves display names for items. Codes stand in for names the
// catalog could not provide.
func (r *Repository) Views(ctx context.Context, items []domain.Product) []View {
	names := catalog.Names{}
	if r.catalog != nil {
		names = r.catalog.Names(ctx)
	}
	out := make([]View, 0, len(items))
	for _, p := range items {
		v := View{
			Product:        p,
			GroupName:      names.Group(p.GroupCode),
			StatusLabel:    pkg.StatusLabel(bool(p.Enabled)),
			StatusSeverity: pkg.StatusSeverity(bool(p.Enabled)),
		}
		if p.CategoryCode != "" {
			v.CategoryName = names.Category(p.CategoryCode)
		}
		out = append(out, v)
	}
	return out
}

// NewProduct returns the defaults of a new-product form inside groupCode.
func NewProduct(groupCode string) domain.Product {
	return domain.Product{
		ItemCode:  pkg.GenerateCode("PRD"),
		GroupCode: groupCode,
		Price:     decimal.Zero,
		UoM:       "EA",
		Sellable:  true,
		Enabled:   true,
	}
}

// NewVariant returns the defaults of a new variant of itemCode. The server
// assigns the id.
func NewVariant(itemCode string, base decimal.Decimal) domain.Variant {
	return domain.Variant{ItemCode: itemCode, Price: base, Enabled: true}
}

// NewSize returns the defaults of a new-size form.
func NewSize() domain.Size {
	return domain.Size{SizeCode: pkg.GenerateCode("SZ")}
}

// ViewsCSV renders resolved products as CSV text.
func ViewsCSV(items []View) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, v := range items {
		rows = append(rows, []string{
			v.ItemCode, v.ItemName, v.GroupName, v.CategoryName,
			v.Price.StringFixed(2), domain.BooleanToYN(bool(v.Sellable)), v.StatusLabel,
		})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Group", "Category", "Price", "Sellable", "Status"}, rows)
}

// VariantsCSV renders variants as CSV text.
func VariantsCSV(items []domain.Variant) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, v := range items {
		rows = append(rows, []string{VariantKey(v.VariantID), v.ItemCode, v.SizeCode, v.VariantName, v.Price.StringFixed(2), pkg.StatusLabel(bool(v.Enabled))})
	}
	return pkg.WriteCSV([]string{"ID", "Item", "Size", "Name", "Price", "Status"}, rows)
}
