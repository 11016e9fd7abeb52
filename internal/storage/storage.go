// Package storage opens the database configured for the application and brings its schema up to date
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/magicalwebsite/backend/internal/config"
	_ "modernc.org/sqlite"
)

// MigrationsTable is the golang-migrate bookkeeping table
const MigrationsTable = "trial_schema_migrations"

// Open connects to the configured database and applies the schema.
// migrationsDir is only used for MySQL; SQLite carries its schema in the binary.
func Open(cfg *config.Config, migrationsDir string) (*sql.DB, error) {
	switch cfg.Database.Type {
	case config.DBTypeSQLite:
		return OpenSQLite(cfg.DSN())
	case config.DBTypeMySQL:
		db, err := connectMySQL(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db, migrationsDir); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// connectMySQL connects to the MySQL database
func connectMySQL(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("mysql connection settings are incomplete")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RunMigrations runs MySQL migrations from migrationsDir.
// When migrationsDir does not exist, the parent directory is tried so the binary can run from cmd/.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://" + migrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		if _, err := os.Stat("../" + migrationsDir); err == nil {
			migrationPath = "file://../" + migrationsDir
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
