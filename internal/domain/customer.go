package domain

// CustomerGroup groups customers that share a discount.
type CustomerGroup struct {
	GroupCode string  `json:"groupCode" validate:"required,max=20"`
	GroupName string  `json:"groupName" validate:"required,max=100"`
	Discount  float64 `json:"discount" validate:"gte=0,lte=100"`
	Note      string  `json:"note,omitempty" validate:"max=254"`
	Enabled   Flag    `json:"enabled"`
}

// Customer is a registered customer keyed by its business code.
type Customer struct {
	CustomerCode string  `json:"customerCode" validate:"required,max=20"`
	CustomerName string  `json:"customerName" validate:"required,max=100"`
	GroupCode    string  `json:"groupCode,omitempty" validate:"max=20"`
	Phone        string  `json:"phone,omitempty" validate:"max=20"`
	Email        string  `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Address      string  `json:"address,omitempty" validate:"max=254"`
	TaxCode      string  `json:"taxCode,omitempty" validate:"max=32"`
	Discount     float64 `json:"discount" validate:"gte=0,lte=100"`
	Enabled      Flag    `json:"enabled"`
}
