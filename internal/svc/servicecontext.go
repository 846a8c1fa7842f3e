package svc

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "pricefeed-api/internal/cache"
	"pricefeed-api/internal/config"
	"pricefeed-api/internal/metrics"
	"pricefeed-api/internal/migrations"
	"pricefeed-api/internal/model"
	pricespersist "pricefeed-api/internal/persistence/prices"
	feedpkg "pricefeed-api/pkg/feed"
	"pricefeed-api/pkg/ingest"
	"pricefeed-api/pkg/prices"
	"pricefeed-api/pkg/query"
)

const migrateTimeout = 15 * time.Second

type ServiceContext struct {
	Config config.Config

	FeedConfig *feedpkg.Config
	Feed       feedpkg.Client

	// DBConn and PriceSamplesModel are nil when no DSN is configured.
	DBConn            sqlx.SqlConn
	PriceSamplesModel model.PriceSamplesModel
	Cache             gocache.Cache

	Store  prices.Store
	Ingest *ingest.Service
	Query  *query.Service
}

func NewServiceContext(c config.Config, mainConfigPath string) *ServiceContext {
	svc := &ServiceContext{Config: c}
	logx.Infof("svc: building service context from %s", mainConfigPath)

	feedCfg := c.FeedConfig()
	// Apply test environment defaults: use the Deribit testnet unless a base_url is pinned
	if c.IsTestEnv() {
		for _, provider := range feedCfg.Providers {
			if strings.TrimSpace(provider.BaseURL) == "" {
				provider.Testnet = true
			}
		}
	}
	client, err := feedCfg.BuildDefault()
	if err != nil {
		logx.Must(fmt.Errorf("failed to build feed client: %w", err))
	}
	svc.FeedConfig = feedCfg
	svc.Feed = metrics.InstrumentFeed(client)

	var store prices.Store
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.PriceSamplesModel = model.NewPriceSamplesModel(conn)
		store = svc.PriceSamplesModel
		initDB(conn, c.Postgres)
	} else {
		logx.Infof("svc: no postgres dsn in %s env, using in-memory price store (per process, not shared with cmd/cron)", c.Env)
		store = prices.NewMemoryStore()
	}

	if strings.TrimSpace(c.Redis.Host) != "" {
		svc.Cache = gocache.New(
			gocache.CacheConf{{RedisConf: c.Redis, Weight: 100}},
			syncx.NewSingleFlight(),
			gocache.NewStat("prices"),
			sqlx.ErrNotFound,
		)
		store = pricespersist.NewService(pricespersist.Config{
			Store: store,
			Cache: svc.Cache,
			TTL:   cachekeys.NewTTLSet(c.TTL),
		})
	}

	svc.Store = store
	svc.Ingest = ingest.NewService(svc.Feed, store, ingest.WithRecorder(metrics.IngestRecorder{}))
	svc.Query = query.NewService(store)
	return svc
}

// initDB sizes the pool and creates the schema. An unreachable database is
// logged and left for the first request to report.
func initDB(conn sqlx.SqlConn, pg config.PostgresConf) {
	db, err := conn.RawDB()
	if err != nil {
		logx.Errorf("svc: postgres unavailable: %v", err)
		return
	}
	if pg.MaxOpen > 0 {
		db.SetMaxOpenConns(pg.MaxOpen)
	}
	if pg.MaxIdle > 0 {
		db.SetMaxIdleConns(pg.MaxIdle)
	}
	if !pg.AutoMigrate {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil {
		logx.Errorf("svc: init db skipped: %v", err)
	}
}
