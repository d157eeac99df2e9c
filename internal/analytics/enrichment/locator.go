package enrichment

import (
	"context"

	"trimlink/internal/conf"
	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is enrichment providers.
var ProviderSet = wire.NewSet(
	NewDeviceDetector,
	wire.Bind(new(domain.DeviceClassifier), new(*DeviceDetector)),
	NewGeoLocator,
)

// NewGeoLocator picks the configured provider: a local GeoIP database first,
// then the ipapi HTTP API, otherwise a locator that always reports the
// location as unavailable.
func NewGeoLocator(c *conf.Analytics, logger log.Logger) (domain.GeoLocator, func(), error) {
	helper := log.NewHelper(logger)

	switch {
	case c.GeoipDB != "":
		locator, err := NewGeoIPLocator(c.GeoipDB)
		if err != nil {
			return nil, nil, err
		}
		helper.Infof("geolocation: geoip database %s", c.GeoipDB)
		cleanup := func() {
			if err := locator.Close(); err != nil {
				helper.Errorf("failed to close geoip database: %v", err)
			}
		}
		return locator, cleanup, nil
	case c.IpapiURL != "":
		helper.Infof("geolocation: ipapi at %s", c.IpapiURL)
		return NewIPAPILocator(c.IpapiURL, nil), func() {}, nil
	default:
		helper.Warn("geolocation disabled: clicks are recorded without city or country")
		return disabledLocator{}, func() {}, nil
	}
}

type disabledLocator struct{}

func (disabledLocator) Lookup(context.Context, string) (domain.Location, error) {
	return domain.Location{}, domain.ErrLocationUnavailable
}
