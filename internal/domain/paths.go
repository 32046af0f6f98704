package domain

// Resource path prefixes of the backend REST contract. Paths are relative to
// the API base URL and case-sensitive.
const (
	PathCustomerGroups    = "api/CustomerGroups"
	PathCustomers         = "api/customers"
	PathProductGroups     = "api/ProductGroups"
	PathProductCategories = "api/ProductCategories"
	PathProducts          = "api/products"
	PathSizes             = "api/Products/sizes"
	PathProductTrees      = "api/producttrees"
	PathAccompaniments    = "api/accompaniments"
	PathCombos            = "api/Combos"
	PathDevices           = "api/devices"
	PathPointsOfSale      = "api/PointOfSales"
	PathImages            = "api/images"
	PathOrders            = "api/order"
	PathLogin             = "api/auth/login"
)

// VariantsPath returns the variant prefix of the product itemCode. The code
// must already be path-escaped.
func VariantsPath(itemCode string) string {
	return "api/Products/" + itemCode + "/Variants"
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse is the answer to a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
