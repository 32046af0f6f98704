package composition

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

// ComboBuilder edits the option slots of a combo. It owns a copy of the
// combo it was started from.
type ComboBuilder struct {
	combo domain.Combo
}

// NewComboBuilder starts editing a copy of c.
func NewComboBuilder(c domain.Combo) *ComboBuilder {
	return &ComboBuilder{combo: cloneCombo(c)}
}

// AddOption appends an empty slot and returns its index.
func (b *ComboBuilder) AddOption(name string, minSelect, maxSelect int) int {
	b.combo.Options = append(b.combo.Options, domain.ComboOption{
		OptionName: name,
		MinSelect:  minSelect,
		MaxSelect:  maxSelect,
		Items:      []domain.ComboOptionItem{},
	})
	return len(b.combo.Options) - 1
}

// RemoveOption deletes slot i.
func (b *ComboBuilder) RemoveOption(i int) error {
	if err := b.checkOption(i); err != nil {
		return err
	}
	b.combo.Options = slices.Delete(b.combo.Options, i, i+1)
	return nil
}

// MoveOption moves slot from to position to, shifting the slots between.
func (b *ComboBuilder) MoveOption(from, to int) error {
	if err := b.checkOption(from); err != nil {
		return err
	}
	if err := b.checkOption(to); err != nil {
		return err
	}
	opt := b.combo.Options[from]
	b.combo.Options = slices.Delete(b.combo.Options, from, from+1)
	b.combo.Options = slices.Insert(b.combo.Options, to, opt)
	return nil
}

// AddItem offers itemCode in slot option at an extra price. An item appears
// at most once per slot.
func (b *ComboBuilder) AddItem(option int, itemCode string, extra decimal.Decimal) error {
	if err := b.checkOption(option); err != nil {
		return err
	}
	opt := &b.combo.Options[option]
	if b.itemIndex(option, itemCode) >= 0 {
		return domain.NewAppError(domain.CodeConflict, fmt.Sprintf("item %q is already in option %q", itemCode, opt.OptionName), nil)
	}
	opt.Items = append(opt.Items, domain.ComboOptionItem{ItemCode: itemCode, ExtraPrice: extra})
	return nil
}

// RemoveItem withdraws itemCode from slot option.
func (b *ComboBuilder) RemoveItem(option int, itemCode string) error {
	if err := b.checkOption(option); err != nil {
		return err
	}
	idx := b.itemIndex(option, itemCode)
	if idx < 0 {
		return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("item %q is not in option %d", itemCode, option), nil)
	}
	opt := &b.combo.Options[option]
	opt.Items = slices.Delete(opt.Items, idx, idx+1)
	return nil
}

// SetDefault makes itemCode the only default of slot option.
func (b *ComboBuilder) SetDefault(option int, itemCode string) error {
	if err := b.checkOption(option); err != nil {
		return err
	}
	idx := b.itemIndex(option, itemCode)
	if idx < 0 {
		return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("item %q is not in option %d", itemCode, option), nil)
	}
	for i := range b.combo.Options[option].Items {
		b.combo.Options[option].Items[i].IsDefault = domain.Flag(i == idx)
	}
	return nil
}

// Combo returns a copy of the combo as edited so far.
func (b *ComboBuilder) Combo() domain.Combo {
	return cloneCombo(b.combo)
}

// Build validates the edited combo and returns a copy of it.
func (b *ComboBuilder) Build() (domain.Combo, error) {
	c := b.Combo()
	if err := pkg.Validate(c); err != nil {
		return domain.Combo{}, err
	}
	return c, nil
}

func (b *ComboBuilder) checkOption(i int) error {
	if i < 0 || i >= len(b.combo.Options) {
		return domain.NewAppError(domain.CodeBadRequest, fmt.Sprintf("option index %d out of range", i), nil)
	}
	return nil
}

func (b *ComboBuilder) itemIndex(option int, itemCode string) int {
	return slices.IndexFunc(b.combo.Options[option].Items, func(it domain.ComboOptionItem) bool {
		return it.ItemCode == itemCode
	})
}

func cloneCombo(c domain.Combo) domain.Combo {
	opts := make([]domain.ComboOption, len(c.Options))
	for i, o := range c.Options {
		o.Items = slices.Clone(o.Items)
		if o.Items == nil {
			o.Items = []domain.ComboOptionItem{}
		}
		opts[i] = o
	}
	c.Options = opts
	return c
}

// TreeEditor edits the component lines of an ingredient tree. It owns a
// copy of the tree it was started from.
type TreeEditor struct {
	tree domain.ProductTree
}

// NewTreeEditor starts editing a copy of t.
func NewTreeEditor(t domain.ProductTree) *TreeEditor {
	t.Components = slices.Clone(t.Components)
	if t.Components == nil {
		t.Components = []domain.ProductTreeComponent{}
	}
	return &TreeEditor{tree: t}
}

// Add adds qty of itemCode. Adding an item already listed increases its
// quantity; a tree never lists its own product.
func (e *TreeEditor) Add(itemCode string, qty decimal.Decimal, uom string) error {
	if !qty.IsPositive() {
		return domain.NewAppError(domain.CodeValidation, "quantity must be positive", nil)
	}
	if itemCode == e.tree.ItemCode {
		return domain.NewAppError(domain.CodeValidation, fmt.Sprintf("tree of %q cannot contain itself", itemCode), nil)
	}
	if i := e.index(itemCode); i >= 0 {
		e.tree.Components[i].Quantity = e.tree.Components[i].Quantity.Add(qty)
		return nil
	}
	e.tree.Components = append(e.tree.Components, domain.ProductTreeComponent{ItemCode: itemCode, Quantity: qty, UoM: uom})
	return nil
}

// SetQuantity replaces the quantity of itemCode.
func (e *TreeEditor) SetQuantity(itemCode string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.NewAppError(domain.CodeValidation, "quantity must be positive", nil)
	}
	i := e.index(itemCode)
	if i < 0 {
		return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("component %q not found", itemCode), nil)
	}
	e.tree.Components[i].Quantity = qty
	return nil
}

// Remove drops the line of itemCode.
func (e *TreeEditor) Remove(itemCode string) error {
	i := e.index(itemCode)
	if i < 0 {
		return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("component %q not found", itemCode), nil)
	}
	e.tree.Components = slices.Delete(e.tree.Components, i, i+1)
	return nil
}

// Tree returns a copy of the tree as edited so far.
func (e *TreeEditor) Tree() domain.ProductTree {
	t := e.tree
	t.Components = slices.Clone(e.tree.Components)
	return t
}

// Build validates the edited tree and returns a copy of it.
func (e *TreeEditor) Build() (domain.ProductTree, error) {
	t := e.Tree()
	if err := pkg.Validate(t); err != nil {
		return domain.ProductTree{}, err
	}
	return t, nil
}

func (e *TreeEditor) index(itemCode string) int {
	return slices.IndexFunc(e.tree.Components, func(c domain.ProductTreeComponent) bool {
		return c.ItemCode == itemCode
	})
}
