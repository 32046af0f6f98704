package device

import (
	"context"
	"log/slog"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
	"github.com/simp-lee/posadmin/internal/resource"
)

// Repository absorbs API failures into safe defaults.
type Repository struct {
	api          *API
	logger       *slog.Logger
	Devices      *resource.Repository[domain.Device]
	PointsOfSale *resource.Repository[domain.PointOfSale]
}

// NewRepository wraps api. A nil logger uses slog.Default().
func NewRepository(api *API, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:          api,
		logger:       logger,
		Devices:      resource.NewRepository(api.Devices, logger),
		PointsOfSale: resource.NewRepository(api.PointsOfSale, logger),
	}
}

// ByPOS lists the devices of one point of sale.
func (r *Repository) ByPOS(ctx context.Context, posCode string) resource.Result[[]domain.Device] {
	return resource.CollectList(ctx, r.logger, domain.PathDevices, "by pos", func(ctx context.Context) ([]domain.Device, error) {
		return r.api.ByPOS(ctx, posCode)
	})
}

// ByType lists the devices of one type.
func (r *Repository) ByType(ctx context.Context, deviceType string) resource.Result[[]domain.Device] {
	return resource.CollectList(ctx, r.logger, domain.PathDevices, "by type", func(ctx context.Context) ([]domain.Device, error) {
		return r.api.ByType(ctx, deviceType)
	})
}

// EnabledPointsOfSale lists the open points of sale.
func (r *Repository) EnabledPointsOfSale(ctx context.Context) resource.Result[[]domain.PointOfSale] {
	return resource.CollectList(ctx, r.logger, domain.PathPointsOfSale, "enabled", r.api.EnabledPointsOfSale)
}

// NewDevice returns the defaults of a new-device form attached to posCode.
func NewDevice(posCode string) domain.Device {
	return domain.Device{
		DeviceCode: pkg.GenerateCode("DEV"),
		DeviceType: domain.DeviceTypePOS,
		POSCode:    posCode,
		Enabled:    true,
	}
}

// NewPointOfSale returns the defaults of a new point-of-sale form.
func NewPointOfSale() domain.PointOfSale {
	return domain.PointOfSale{POSCode: pkg.GenerateCode("POS"), Enabled: true}
}

// DeviceTypes lists the selectable device types.
var DeviceTypes = []string{domain.DeviceTypePOS, domain.DeviceTypeKDS, domain.DeviceTypePrinter, domain.DeviceTypeKiosk}

// DevicesCSV renders devices as CSV text.
func DevicesCSV(items []domain.Device) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{d.DeviceCode, d.DeviceName, d.DeviceType, d.POSCode, d.IPAddress, d.SerialNumber, pkg.StatusLabel(bool(d.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Type", "POS", "IP", "Serial", "Status"}, rows)
}

// PointsOfSaleCSV renders points of sale as CSV text.
func PointsOfSaleCSV(items []domain.PointOfSale) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		rows = append(rows, []string{p.POSCode, p.POSName, p.StoreCode, p.Address, pkg.StatusLabel(bool(p.Enabled))})
	}
	return pkg.WriteCSV([]string{"Code", "Name", "Store", "Address", "Status"}, rows)
}
