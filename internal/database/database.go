package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ticket-api/internal/config"
	"ticket-api/internal/database/migrations"
	"ticket-api/internal/logger"
)

const (
	maxConnectAttempts = 5
	connectRetryDelay  = 2 * time.Second
)

// Open connects to the configured database, retrying a few times so the service can
// start alongside its database container.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driverName, dsn := driverFor(cfg)

	var sqldb *sql.DB
	var err error

	for i := 0; i < maxConnectAttempts; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", cfg.Driver, i+1, maxConnectAttempts))
		sqldb, err = sql.Open(driverName, dsn)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
		if i < maxConnectAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(connectRetryDelay):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w", cfg.Driver, maxConnectAttempts, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
		sqldb.SetMaxOpenConns(1)
	} else {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return NewBun(sqldb, cfg.Driver), nil
}

// NewBun wraps an open *sql.DB with the bun dialect matching driver.
func NewBun(sqldb *sql.DB, driver string) *bun.DB {
	switch driver {
	case config.DriverMySQL:
		return bun.NewDB(sqldb, mysqldialect.New())
	case config.DriverSQLite:
		return bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return bun.NewDB(sqldb, pgdialect.New())
	}
}

// Migrate brings the schema up to date: versioned migrations on postgres, a
// model-driven CREATE TABLE elsewhere.
func Migrate(ctx context.Context, db *bun.DB, cfg config.DatabaseConfig, log *logger.Logger) error {
	if cfg.Driver != config.DriverPostgres {
		if err := migrations.EnsureSchema(ctx, db); err != nil {
			return err
		}
		log.LogDatabase("MIGRATE", "tickets", "schema ensured")
		return nil
	}

	runner := migrations.NewRunner(db.DB, migrations.MigrateOptions{MigrationsDir: cfg.MigrationsDir}, log)
	if err := runner.RunMigrations(); err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB through the postgres driver.
	return nil
}

func driverFor(cfg config.DatabaseConfig) (driverName, dsn string) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return "mysql", cfg.DSN
	case config.DriverSQLite:
		return sqliteshim.ShimName, cfg.SQLitePath
	default:
		return "postgres", cfg.DSN
	}
}
