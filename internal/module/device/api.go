// Package device manages points of sale and the devices attached to them.
package device

import (
	"context"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// API binds the device resources to a transport client.
type API struct {
	Devices      *resource.Client[domain.Device]
	PointsOfSale *resource.Client[domain.PointOfSale]
}

// NewAPI returns the device API over tc.
func NewAPI(tc *transport.Client) *API {
	return &API{
		Devices:      resource.NewClient[domain.Device](tc, domain.PathDevices),
		PointsOfSale: resource.NewClient[domain.PointOfSale](tc, domain.PathPointsOfSale),
	}
}

// ByPOS lists the devices attached to one point of sale.
func (a *API) ByPOS(ctx context.Context, posCode string) ([]domain.Device, error) {
	return a.Devices.QueryList(ctx, resource.AllSuffix, transport.Params{"posCode": posCode})
}

// ByType lists the devices of one type, e.g. domain.DeviceTypeKDS.
func (a *API) ByType(ctx context.Context, deviceType string) ([]domain.Device, error) {
	return a.Devices.QueryList(ctx, resource.AllSuffix, transport.Params{"deviceType": deviceType})
}

// EnabledPointsOfSale lists the points of sale that are open for business.
func (a *API) EnabledPointsOfSale(ctx context.Context) ([]domain.PointOfSale, error) {
	return a.PointsOfSale.QueryList(ctx, resource.AllSuffix, transport.Params{"enabled": domain.FlagYes})
}
