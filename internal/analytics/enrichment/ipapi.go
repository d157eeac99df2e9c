package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"trimlink/internal/domain"
)

var _ domain.GeoLocator = (*IPAPILocator)(nil)

const DefaultIPAPIURL = "https://ipapi.co"

// IPAPILocator resolves IP addresses through the ipapi.co JSON API.
type IPAPILocator struct {
	baseURL string
	client  *http.Client
}

// NewIPAPILocator creates a locator against baseURL. Deadlines come from the
// caller's context, so the client carries no timeout of its own.
func NewIPAPILocator(baseURL string, client *http.Client) *IPAPILocator {
	if baseURL == "" {
		baseURL = DefaultIPAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &IPAPILocator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type ipapiResponse struct {
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup queries /{ip}/json/.
func (l *IPAPILocator) Lookup(ctx context.Context, ipStr string) (domain.Location, error) {
	ip, err := publicIP(ipStr)
	if err != nil {
		return domain.Location{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", l.baseURL, ip.String()), nil)
	if err != nil {
		return domain.Location{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Location{}, fmt.Errorf("ipapi: unexpected status %d", resp.StatusCode)
	}

	var body ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Location{}, fmt.Errorf("ipapi: decode response: %w", err)
	}
	if body.Error {
		return domain.Location{}, fmt.Errorf("ipapi: %s", body.Reason)
	}
	if body.City == "" && body.CountryName == "" {
		return domain.Location{}, domain.ErrLocationUnavailable
	}

	return domain.Location{City: body.City, Country: body.CountryName}, nil
}
