package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Alijeyrad/hospital_backend/config"
)

// InitializeDatabases creates server.databases, or database.dbname when that
// list is empty, through the maintenance "postgres" database.
func InitializeDatabases(cfg *config.Config) error {
	names := targetDatabases(cfg)
	if len(names) == 0 {
		return fmt.Errorf("no database names provided")
	}

	postgresConfig := FromCentralConfig(cfg.Database)
	postgresConfig.DBName = "postgres"

	conn, err := openSQLDB(postgresConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close()

	for _, dbName := range names {
		if err := createDatabaseIfNotExists(conn, dbName); err != nil {
			return fmt.Errorf("failed to create database %q: %w", dbName, err)
		}
	}

	return nil
}

func targetDatabases(cfg *config.Config) []string {
	if len(cfg.Server.Databases) > 0 {
		return cfg.Server.Databases
	}
	if cfg.Database.DBName != "" {
		return []string{cfg.Database.DBName}
	}
	return nil
}

func createDatabaseIfNotExists(conn *sql.DB, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := conn.QueryRowContext(ctx, query, dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}
