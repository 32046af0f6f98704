package domain

// ProductGroup is the top level of the product catalog.
type ProductGroup struct {
	GroupCode    string `json:"groupCode" validate:"required,max=20"`
	GroupName    string `json:"groupName" validate:"required,max=100"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	Enabled      Flag   `json:"enabled"`
}

// ProductCategory belongs to a ProductGroup.
type ProductCategory struct {
	CategoryCode string `json:"categoryCode" validate:"required,max=20"`
	CategoryName string `json:"categoryName" validate:"required,max=100"`
	GroupCode    string `json:"groupCode" validate:"required,max=20"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	Enabled      Flag   `json:"enabled"`
}
