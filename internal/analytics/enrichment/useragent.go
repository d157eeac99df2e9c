package enrichment

import (
	"strings"

	"trimlink/internal/domain"

	ua "github.com/mileusna/useragent"
)

var _ domain.DeviceClassifier = (*DeviceDetector)(nil)

// useragent only knows phones, tablets and desktops; these tokens cover the
// rest of the closed device set.
var (
	smartTVTokens  = []string{"smart-tv", "smarttv", "googletv", "appletv", "hbbtv", "netcast", "web0s", "bravia", "roku", "crkey"}
	wearableTokens = []string{"wear os", "wearos", "watch os", "watchos", "smartwatch"}
)

// DeviceDetector detects device type from User-Agent strings.
type DeviceDetector struct{}

// NewDeviceDetector creates a new DeviceDetector.
func NewDeviceDetector() *DeviceDetector {
	return &DeviceDetector{}
}

// Classify returns the device class of a User-Agent string.
// Empty, bot and unrecognised agents are attributed to desktop.
func (d *DeviceDetector) Classify(uaString string) domain.DeviceType {
	if strings.TrimSpace(uaString) == "" {
		return domain.DefaultDeviceType
	}

	lower := strings.ToLower(uaString)
	if containsAny(lower, smartTVTokens) {
		return domain.DeviceSmartTV
	}
	if containsAny(lower, wearableTokens) {
		return domain.DeviceWearable
	}

	parsed := ua.Parse(uaString)

	switch {
	case parsed.Bot:
		return domain.DefaultDeviceType
	case parsed.Tablet:
		return domain.DeviceTablet
	case parsed.Mobile:
		return domain.DeviceMobile
	default:
		return domain.DeviceDesktop
	}
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
