package database

import (
	"context"
	"fmt"
	"time"

	"epicure-backend/internal/config"
	"epicure-backend/internal/store"
	"epicure-backend/internal/store/mongostore"
	"epicure-backend/internal/store/sqlstore"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects the store selected by DB_DRIVER. It is called once per
// process; the caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.MongoConnectionURI(), cfg.DBName)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverPostgres:
		s, err := sqlstore.Open(postgres.Open(cfg.DatabaseDSN), gormConfig(cfg))
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverSQLite:
		s, err := sqlstore.Open(sqlite.Open(cfg.DatabaseDSN), gormConfig(cfg))
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func gormConfig(cfg *config.Config) *gorm.Config {
	level := gormlogger.Info
	if cfg.Environment.IsProduction() {
		level = gormlogger.Warn
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}
