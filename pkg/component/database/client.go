// Package database opens gorm connections for the postgres, mysql and
// sqlite drivers with a shared pool and logging setup.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	mysqldialect "gorm.io/driver/mysql"
	postgresdialect "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open validates opts, connects with the configured driver, applies pool
// settings and pings the server.
func Open(ctx context.Context, opts *Options) (*gorm.DB, error) {
	if opts == nil {
		return nil, fmt.Errorf("database options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database options: %w", err)
	}

	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(opts.LogLevel, opts.SlowThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// sqlite serializes writers; one connection also keeps :memory: databases alive
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
		sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
		sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)
	}

	if err := Ping(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Ping checks the connection with a 5 second cap.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(opts *Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case DriverPostgres:
		return postgresdialect.Open(BuildPostgresDSN(opts)), nil
	case DriverMySQL:
		return mysqldialect.Open(BuildMySQLDSN(opts)), nil
	case DriverSQLite:
		return sqlite.Open(opts.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}
