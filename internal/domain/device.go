package domain

// Device types accepted by the backend.
const (
	DeviceTypePOS     = "POS"
	DeviceTypeKDS     = "KDS"
	DeviceTypePrinter = "PRINTER"
	DeviceTypeKiosk   = "KIOSK"
)

// Device is a terminal, screen or printer attached to a point of sale.
type Device struct {
	DeviceCode   string `json:"deviceCode" validate:"required,max=50"`
	DeviceName   string `json:"deviceName" validate:"required,max=100"`
	DeviceType   string `json:"deviceType" validate:"required,oneof=POS KDS PRINTER KIOSK"`
	POSCode      string `json:"posCode,omitempty" validate:"max=20"`
	IPAddress    string `json:"ipAddress,omitempty" validate:"omitempty,ip"`
	SerialNumber string `json:"serialNumber,omitempty" validate:"max=100"`
	Enabled      Flag   `json:"enabled"`
}

// PointOfSale is a selling location.
type PointOfSale struct {
	POSCode   string `json:"posCode" validate:"required,max=20"`
	POSName   string `json:"posName" validate:"required,max=100"`
	StoreCode string `json:"storeCode,omitempty" validate:"max=20"`
	Address   string `json:"address,omitempty" validate:"max=254"`
	Enabled   Flag   `json:"enabled"`
}
