package domain

import "github.com/shopspring/decimal"

// ProductTree is the ingredient tree (bill of materials) of a product.
type ProductTree struct {
	TreeCode   string                 `json:"treeCode" validate:"required,max=50"`
	ItemCode   string                 `json:"itemCode" validate:"required,max=50"`
	Quantity   decimal.Decimal        `json:"quantity" validate:"gt=0"`
	Components []ProductTreeComponent `json:"components" validate:"dive"`
	Enabled    Flag                   `json:"enabled"`
}

// ProductTreeComponent is one ingredient line of a ProductTree.
type ProductTreeComponent struct {
	ItemCode string          `json:"itemCode" validate:"required,max=50"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	UoM      string          `json:"uom,omitempty" validate:"max=20"`
}

// Accompaniment is an add-on that can be sold with a product.
type Accompaniment struct {
	AccompanimentCode string          `json:"accompanimentCode" validate:"required,max=50"`
	AccompanimentName string          `json:"accompanimentName" validate:"required,max=100"`
	ItemCode          string          `json:"itemCode,omitempty" validate:"max=50"`
	Price             decimal.Decimal `json:"price" validate:"gte=0"`
	Enabled           Flag            `json:"enabled"`
}

// Combo bundles products into selectable options at a fixed price.
type Combo struct {
	ComboCode string          `json:"comboCode" validate:"required,max=50"`
	ComboName string          `json:"comboName" validate:"required,max=100"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Options   []ComboOption   `json:"options" validate:"dive"`
	Enabled   Flag            `json:"enabled"`
}

// ComboOption is a choice slot within a combo.
type ComboOption struct {
	OptionName string            `json:"optionName" validate:"required,max=100"`
	MinSelect  int               `json:"minSelect" validate:"gte=0"`
	MaxSelect  int               `json:"maxSelect" validate:"gtefield=MinSelect"`
	Items      []ComboOptionItem `json:"items" validate:"required,min=1,dive"`
}

// ComboOptionItem is a product that can fill a ComboOption.
type ComboOptionItem struct {
	ItemCode   string          `json:"itemCode" validate:"required,max=50"`
	ExtraPrice decimal.Decimal `json:"extraPrice" validate:"gte=0"`
	IsDefault  Flag            `json:"isDefault"`
}
