package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"
	log "github.com/sirupsen/logrus"

	"fleetflow/internal/config"
	"fleetflow/internal/repository"
	"fleetflow/internal/repository/memory"
	"fleetflow/internal/repository/postgres"
)

// NewDatabase creates a new PostgreSQL connection pool.
// If nrApp is provided, it uses the New Relic instrumented driver for SQL tracing.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	driver := "postgres"
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	// Dispatch holds row locks for the length of a transaction, so keep
	// enough connections for concurrent transitions without swamping the DB.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewStore opens the configured repository store. The returned close
// function releases the underlying connection, if any.
func NewStore(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (repository.Store, func() error, error) {
	if cfg.Driver == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewStore(), func() error { return nil }, nil
	}

	db, err := NewDatabase(ctx, cfg, nrApp)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return postgres.NewStore(db), db.Close, nil
}
