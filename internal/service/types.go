package service

import (
	"time"

	"trimlink/internal/analytics"
)

type CreateLinkRequest struct {
	Title       string `json:"title"`
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
	// QRImage is a base64 encoded PNG in JSON.
	QRImage []byte `json:"qr_image,omitempty"`
}

type CreateLinkReply struct {
	Link     *LinkInfo `json:"link"`
	QRStored bool      `json:"qr_stored"`
	Warning  string    `json:"warning,omitempty"`
}

type LinkInfo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	CustomAlias string    `json:"custom_alias,omitempty"`
	ShortURL    string    `json:"short_url"`
	QRAssetRef  string    `json:"qr_asset_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListLinksRequest struct{}

type LinkSummary struct {
	*LinkInfo
	Clicks int `json:"clicks"`
}

type ListLinksReply struct {
	Links       []*LinkSummary `json:"links"`
	TotalLinks  int            `json:"total_links"`
	TotalClicks int            `json:"total_clicks"`
}

type GetLinkRequest struct {
	ID string `json:"id"`
}

type GetLinkReply struct {
	Link *LinkInfo `json:"link"`
}

type DeleteLinkRequest struct {
	ID string `json:"id"`
}

type DeleteLinkReply struct {
	Success bool `json:"success"`
}

type GetClicksRequest struct {
	ID string `json:"id"`
}

type ClickInfo struct {
	Timestamp  time.Time `json:"timestamp"`
	DeviceType string    `json:"device_type"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
}

type GetClicksReply struct {
	Clicks []*ClickInfo `json:"clicks"`
}

type GetLinkStatsRequest struct {
	ID string `json:"id"`
}

type GetLinkStatsReply struct {
	Link        *LinkInfo                `json:"link"`
	TotalClicks int                      `json:"total_clicks"`
	Devices     map[string]int           `json:"devices"`
	Cities      []analytics.CityCount    `json:"cities"`
	Countries   []analytics.CountryCount `json:"countries"`
}
