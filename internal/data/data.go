package data

import (
	"context"
	"fmt"
	"time"

	"trimlink/internal/conf"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewLinkRepo,
	NewLinkCache,
	NewCachedLinkRepository,
	NewClickRepo,
	NewAssetStore,
)

// Data .
type Data struct {
	db  *entsql.Driver
	rdb *redis.Client
}

// NewData opens the database, runs the schema migration and connects to
// Redis when an address is configured.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	log := log.NewHelper(logger)

	drv, err := openDriver(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed opening connection to %s: %w", c.Database.Driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := Migrate(ctx, drv); err != nil {
		_ = drv.Close()
		return nil, nil, fmt.Errorf("failed creating schema resources: %w", err)
	}

	d := &Data{
		db:  drv,
		rdb: newRedisClient(ctx, c.Redis, log),
	}

	cleanup := func() {
		log.Info("message", "closing the data resources")
		if err := d.db.Close(); err != nil {
			log.Error(err)
		}
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				log.Error(err)
			}
		}
	}

	return d, cleanup, nil
}

func openDriver(driverName, source string) (*entsql.Driver, error) {
	drv, err := entsql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	if drv.Dialect() == dialect.SQLite {
		// One writer at a time; shared connections also keep in-memory
		// databases alive.
		drv.DB().SetMaxOpenConns(1)
	}
	return drv, nil
}

// newRedisClient returns nil when Redis is not configured or unreachable, in
// which case resolves go straight to the database.
func newRedisClient(ctx context.Context, c *conf.Data_Redis, log *log.Helper) *redis.Client {
	if c == nil || c.Addr == "" {
		log.Info("redis not configured, link cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.Db,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis at %s unreachable, link cache disabled: %v", c.Addr, err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func (d *Data) dialect() string {
	return d.db.Dialect()
}
