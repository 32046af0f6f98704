package domain

import "github.com/shopspring/decimal"

// Product is a sellable or stock item keyed by its item code.
type Product struct {
	ItemCode     string          `json:"itemCode" validate:"required,max=50"`
	ItemName     string          `json:"itemName" validate:"required,max=200"`
	ForeignName  string          `json:"foreignName,omitempty" validate:"max=200"`
	GroupCode    string          `json:"groupCode" validate:"required,max=20"`
	CategoryCode string          `json:"categoryCode,omitempty" validate:"max=20"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Barcode      string          `json:"barcode,omitempty" validate:"max=50"`
	UoM          string          `json:"uom,omitempty" validate:"max=20"`
	ImageURL     string          `json:"imageUrl,omitempty" validate:"omitempty,max=500"`
	Sellable     Flag            `json:"sellable"`
	IsCombo      Flag            `json:"isCombo"`
	Enabled      Flag            `json:"enabled"`
}

// Size is a product size shared by all variants.
type Size struct {
	SizeCode     string `json:"sizeCode" validate:"required,max=20"`
	SizeName     string `json:"sizeName" validate:"required,max=50"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

// Variant is a sized version of a product, keyed by a numeric id.
type Variant struct {
	VariantID   int64           `json:"variantID"`
	ItemCode    string          `json:"itemCode" validate:"required,max=50"`
	SizeCode    string          `json:"sizeCode" validate:"required,max=20"`
	VariantName string          `json:"variantName" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Enabled     Flag            `json:"enabled"`
}
