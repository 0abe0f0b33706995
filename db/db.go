package db

import (
	"context"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dragnotes/config"
	"dragnotes/logger"
	"dragnotes/migrations"
)

// Connect opens the database selected by cfg.Type, configures the pool and
// applies the embedded migrations.
func Connect(cfg config.DB, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := Open(dialector, cfg, log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if err := migrations.Migrate(sqlDB, cfg.Type, log); err != nil {
		Close(gdb)
		return nil, err
	}

	log.Info().Str("type", cfg.Type).Msg("connected to database")

	return gdb, nil
}

// Open wraps an existing dialector with the GORM settings shared by every
// store: UTC timestamps, translated driver errors and no implicit
// per-statement transactions.
func Open(dialector gorm.Dialector, cfg config.DB, log *logger.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log),
		TranslateError:         true,
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return gdb, nil
}

func newDialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.Type {
	case config.DBTypeMySQL:
		dsn, err := normalizeMySQLDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case config.DBTypePostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DBTypeSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// normalizeMySQLDSN forces the options the stores rely on: DATETIME columns
// scanned into time.Time, in UTC.
func normalizeMySQLDSN(dsn string) (string, error) {
	mcfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}

	mcfg.ParseTime = true
	mcfg.Loc = time.UTC
	if mcfg.Params == nil {
		mcfg.Params = map[string]string{}
	}
	if _, ok := mcfg.Params["charset"]; !ok {
		mcfg.Params["charset"] = "utf8mb4"
	}

	return mcfg.FormatDSN(), nil
}

// Ping checks that the database answers. Used by the health endpoint.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
