package enrichment

import (
	"context"
	"net"

	"trimlink/internal/domain"

	geoip2 "github.com/oschwald/geoip2-golang"
)

var _ domain.GeoLocator = (*GeoIPLocator)(nil)

// GeoIPLocator resolves IP addresses to city and country using a local
// GeoIP2/GeoLite2 City database.
type GeoIPLocator struct {
	db *geoip2.Reader
}

// NewGeoIPLocator opens the database at dbPath.
// Returns error if the database file cannot be opened or is corrupt.
func NewGeoIPLocator(dbPath string) (*GeoIPLocator, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &GeoIPLocator{db: db}, nil
}

// Close closes the GeoIP database reader.
func (g *GeoIPLocator) Close() error {
	return g.db.Close()
}

// Lookup returns English city and country names for ip.
func (g *GeoIPLocator) Lookup(ctx context.Context, ipStr string) (domain.Location, error) {
	ip, err := publicIP(ipStr)
	if err != nil {
		return domain.Location{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}

	record, err := g.db.City(ip)
	if err != nil {
		return domain.Location{}, err
	}

	loc := domain.Location{
		City:    record.City.Names["en"],
		Country: record.Country.Names["en"],
	}
	if loc.City == "" && loc.Country == "" {
		return domain.Location{}, domain.ErrLocationUnavailable
	}
	return loc, nil
}

// publicIP parses ipStr and rejects addresses no provider can place.
func publicIP(ipStr string) (net.IP, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return nil, domain.ErrLocationUnavailable
	}
	return ip, nil
}
