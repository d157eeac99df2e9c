package conf

import "time"

const (
	DefaultHTTPAddr     = "0.0.0.0:8000"
	DefaultGRPCAddr     = "0.0.0.0:9000"
	DefaultDriver       = "sqlite3"
	DefaultSource       = "file:trimlink.db?cache=shared&_fk=1"
	DefaultCodeLength   = 4
	DefaultMaxAttempts  = 5
	DefaultGeoTimeout   = 1500 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second
	DefaultMaxInFlight  = 1024
	DefaultCacheTTL     = 10 * time.Minute
)

// ApplyDefaults fills every section left out of the config file.
func (b *Bootstrap) ApplyDefaults() {
	if b.Server == nil {
		b.Server = &Server{}
	}
	if b.Server.Http == nil {
		b.Server.Http = &Server_HTTP{}
	}
	if b.Server.Http.Addr == "" {
		b.Server.Http.Addr = DefaultHTTPAddr
	}
	if b.Server.Grpc == nil {
		b.Server.Grpc = &Server_GRPC{}
	}
	if b.Server.Grpc.Addr == "" {
		b.Server.Grpc.Addr = DefaultGRPCAddr
	}

	if b.Data == nil {
		b.Data = &Data{}
	}
	if b.Data.Database == nil {
		b.Data.Database = &Data_Database{}
	}
	if b.Data.Database.Driver == "" {
		b.Data.Database.Driver = DefaultDriver
	}
	if b.Data.Database.Source == "" {
		b.Data.Database.Source = DefaultSource
	}
	if b.Data.Redis == nil {
		b.Data.Redis = &Data_Redis{}
	}
	if b.Data.Redis.CacheTTL <= 0 {
		b.Data.Redis.CacheTTL = Duration(DefaultCacheTTL)
	}

	if b.Link == nil {
		b.Link = &Link{}
	}
	if b.Link.CodeLength <= 0 {
		b.Link.CodeLength = DefaultCodeLength
	}
	if b.Link.MaxAttempts <= 0 {
		b.Link.MaxAttempts = DefaultMaxAttempts
	}

	if b.Analytics == nil {
		b.Analytics = &Analytics{}
	}
	if b.Analytics.GeoTimeout <= 0 {
		b.Analytics.GeoTimeout = Duration(DefaultGeoTimeout)
	}
	if b.Analytics.WriteTimeout <= 0 {
		b.Analytics.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if b.Analytics.MaxInFlight <= 0 {
		b.Analytics.MaxInFlight = DefaultMaxInFlight
	}

	if b.Auth == nil {
		b.Auth = &Auth{}
	}
	if b.Assets == nil {
		b.Assets = &Assets{}
	}
}
