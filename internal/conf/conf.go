// Package conf holds the configuration tree scanned from configs/config.yaml.
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Link      *Link      `json:"link"`
	Analytics *Analytics `json:"analytics"`
	Auth      *Auth      `json:"auth"`
	Assets    *Assets    `json:"assets"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty means the peer address is the
	// client.
	TrustedProxies []string `json:"trusted_proxies"`
}

type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Data_Redis is optional; an empty Addr disables the resolve cache.
type Data_Redis struct {
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	Db           int      `json:"db"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	CacheTTL     Duration `json:"cache_ttl"`
}

type Link struct {
	CodeLength  int `json:"code_length"`
	MaxAttempts int `json:"max_attempts"`
	// BaseURL prefixes short identifiers in API responses.
	BaseURL string `json:"base_url"`
}

type Analytics struct {
	GeoTimeout   Duration `json:"geo_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	MaxInFlight  int64    `json:"max_in_flight"`
	GeoipDB      string   `json:"geoip_db"`
	IpapiURL     string   `json:"ipapi_url"`
}

type Auth struct {
	JwtSecret string `json:"jwt_secret"`
}

// Assets configures the S3-compatible store for QR images. An empty Bucket
// disables uploads.
type Assets struct {
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	PublicBaseURL   string `json:"public_base_url"`
}

// Duration decodes "1.5s" style strings as well as integer nanoseconds.
type Duration time.Duration

func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}
