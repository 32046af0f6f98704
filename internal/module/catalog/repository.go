package catalog

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
	api        *API
	logger     *slog.Logger
	Groups     *resource.Repository[domain.ProductGroup]
	Categories *resource.Repository[domain.ProductCategory]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:        api,
		logger:     logger,
		Groups:     resource.NewRepository(api.Groups, logger),
		Categories: resource.NewRepository(api.Categories, logger),
	}
}

// CategoriesByGroup lists the categories of one group.
func (r *Repository) CategoriesByGroup(ctx context.Context, groupCode string) resource.Result[[]domain.ProductCategory] {
	return resource.CollectList(ctx, r.logger, domain.PathProductCategories, "by group", func(ctx context.Context) ([]domain.ProductCategory, error) {
		return r.api.CategoriesByGroup(ctx, groupCode)
	})
}

// Names maps group and category codes to their display names.
type Names struct {
	Groups     map[string]string
	Categories map[string]string
}

// Group returns the name of code, or code itself when unknown.
func (n Names) Group(code string) string {
	if name, ok := n.Groups[code]; ok {
		return name
	}
	return code
}

// Category returns the name of code, or code itself when unknown.
func (n Names) Category(code string) string {
	if name, ok := n.Categories[code]; ok {
		return name
	}
	return code
}

// Names loads every group and category name. Lookups fall back to codes
// for whichever list failed to load.
func (r *Repository) Names(ctx context.Context) Names {
	groups := r.Groups.All(ctx).Value
	categories := r.Categories.All(ctx).Value

	n := Names{
		Groups:     make(map[string]string, len(groups)),
		Categories: make(map[string]string, len(categories)),
	}
	for _, g := range groups {
		n.Groups[g.GroupCode] = g.GroupName
	}
	for _, c := range categories {
		n.Categories[c.CategoryCode] = c.CategoryName
	}
	return n
}

// NewGroup returns the defaults of a new-group form.
func NewGroup() domain.ProductGroup {
	return domain.ProductGroup{GroupCode: pkg.GenerateCode("PG"), Enabled: true}
}

// NewCategory returns the defaults of a new-category form inside groupCode.
func NewCategory(groupCode string) domain.ProductCategory {
	return domain.ProductCategory{CategoryCode: pkg.GenerateCode("PC"), GroupCode: groupCode, Enabled: true}
}

// GroupsCSV renders product groups as CSV text.
func GroupsCSV(items []domain.ProductGroup) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{g.GroupCode, g.GroupName, strconv.Itoa(g.DisplayOrder), pkg.StatusLabel(bool(g.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Order", "Status"}, rows)
}

// CategoriesCSV renders categories as CSV text, with group names resolved
// through names.
func CategoriesCSV(items []domain.ProductCategory, names Names) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{c.CategoryCode, c.CategoryName, names.Group(c.GroupCode), strconv.Itoa(c.DisplayOrder), pkg.StatusLabel(bool(c.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Group", "Order", "Status"}, rows)
}
