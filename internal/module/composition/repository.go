package composition

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
)

// Repository absorbs API failures into safe defaults.
type Repository struct {
	api            *API
	logger         *slog.Logger
	Trees          *resource.Repository[domain.ProductTree]
	Accompaniments *resource.Repository[domain.Accompaniment]
	Combos         *resource.Repository[domain.Combo]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:            api,
		logger:         logger,
		Trees:          resource.NewRepository(api.Trees, logger),
		Accompaniments: resource.NewRepository(api.Accompaniments, logger),
		Combos:         resource.NewRepository(api.Combos, logger),
	}
}

// TreesByItem lists the ingredient trees of one product.
func (r *Repository) TreesByItem(ctx context.Context, itemCode string) resource.Result[[]domain.ProductTree] {
	return resource.CollectList(ctx, r.logger, domain.PathProductTrees, "by item", func(ctx context.Context) ([]domain.ProductTree, error) {
		return r.api.TreesByItem(ctx, itemCode)
	})
}

// EnabledAccompaniments lists the add-ons on offer.
func (r *Repository) EnabledAccompaniments(ctx context.Context) resource.Result[[]domain.Accompaniment] {
	return resource.CollectList(ctx, r.logger, domain.PathAccompaniments, "enabled", r.api.EnabledAccompaniments)
}

// EnabledCombos lists the combos on offer.
func (r *Repository) EnabledCombos(ctx context.Context) resource.Result[[]domain.Combo] {
	return resource.CollectList(ctx, r.logger, domain.PathCombos, "enabled", r.api.EnabledCombos)
}

// NewTree returns an empty tree producing one unit of itemCode.
func NewTree(itemCode string) domain.ProductTree {
	return domain.ProductTree{
		TreeCode:   pkg.GenerateCode("TR"),
		ItemCode:   itemCode,
		Quantity:   decimal.NewFromInt(1),
		Components: []domain.ProductTreeComponent{},
		Enabled:    true,
	}
}

// NewAccompaniment returns the defaults of a new-accompaniment form.
func NewAccompaniment() domain.Accompaniment {
	return domain.Accompaniment{AccompanimentCode: pkg.GenerateCode("ACC"), Price: decimal.Zero, Enabled: true}
}

// NewCombo returns an empty combo.
func NewCombo() domain.Combo {
	return domain.Combo{ComboCode: pkg.GenerateCode("CMB"), Price: decimal.Zero, Options: []domain.ComboOption{}, Enabled: true}
}

// TreesCSV renders trees as CSV text, one row per tree.
func TreesCSV(items []domain.ProductTree) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{t.TreeCode, t.ItemCode, t.Quantity.String(), strconv.Itoa(len(t.Components)), pkg.StatusLabel(bool(t.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Item", "Quantity", "Components", "Status"}, rows)
}

// AccompanimentsCSV renders accompaniments as CSV text.
func AccompanimentsCSV(items []domain.Accompaniment) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.AccompanimentCode, a.AccompanimentName, a.ItemCode, a.Price.StringFixed(2), pkg.StatusLabel(bool(a.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Item", "Price", "Status"}, rows)
}

// CombosCSV renders combos as CSV text, one row per combo.
func CombosCSV(items []domain.Combo) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{c.ComboCode, c.ComboName, c.Price.StringFixed(2), strconv.Itoa(len(c.Options)), pkg.StatusLabel(bool(c.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Price", "Options", "Status"}, rows)
}
