package domain

import (
	"strings"
	"time"
)

// DeviceType is the closed set of device classes a click is attributed to.
type DeviceType string

const (
	DeviceMobile   DeviceType = "mobile"
	DeviceTablet   DeviceType = "tablet"
	DeviceDesktop  DeviceType = "desktop"
	DeviceSmartTV  DeviceType = "smarttv"
	DeviceWearable DeviceType = "wearable"

	DefaultDeviceType = DeviceDesktop
)

// DeviceTypes lists every device class in display order.
var DeviceTypes = []DeviceType{DeviceDesktop, DeviceMobile, DeviceTablet, DeviceSmartTV, DeviceWearable}

// ParseDeviceType normalises a stored or reported device class. Anything
// outside the closed set is attributed to the default.
func ParseDeviceType(s string) DeviceType {
	switch d := DeviceType(strings.ToLower(strings.TrimSpace(s))); d {
	case DeviceMobile, DeviceTablet, DeviceDesktop, DeviceSmartTV, DeviceWearable:
		return d
	default:
		return DefaultDeviceType
	}
}

// ClickEvent is one recorded visit to a short link. It is append-only.
type ClickEvent struct {
	LinkID     string
	Timestamp  time.Time
	DeviceType DeviceType
	// City and Country are empty when geolocation was unavailable.
	City    string
	Country string
}

// Location is the approximate origin of a request.
type Location struct {
	City    string
	Country string
}

// RequestContext carries what the click recorder needs from a visit.
type RequestContext struct {
	UserAgent string
	ClientIP  string
	Referer   string
}
