package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/NoteHub-io/notehub/internal/config"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sql connection together with its dialect so callers can build
// queries with the right placeholder style. It is created once at startup and
// injected into the store rather than held as package state.
type DB struct {
	Conn *sql.DB
	Type string
}

// Open connects to the configured database, applies migrations, and returns
// the connection.
func Open(cfg *config.Config) (*DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Database.Type {
	case "postgres":
		db, err = openPostgres(cfg)
	case "sqlite", "":
		db, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	if err := RunMigrations(db, cfg.Database.Type); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("Database initialized successfully (type: %s)", databaseType(cfg))
	return &DB{Conn: db, Type: databaseType(cfg)}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.Conn.Close()
}

func databaseType(cfg *config.Config) string {
	if cfg.Database.Type == "" {
		return "sqlite"
	}
	return cfg.Database.Type
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %v", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func openSQLite(cfg *config.Config) (*sql.DB, error) {
	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dsn := cfg.Database.Path
	if cfg.Database.WALMode {
		dsn += "?_journal=WAL"
	}

	retries := cfg.Database.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var db *sql.DB
	var lastErr error
	for i := 0; i < retries; i++ {
		db, lastErr = sql.Open("sqlite3", dsn)
		if lastErr == nil {
			if lastErr = db.Ping(); lastErr == nil {
				break
			}
			db.Close()
		}
		log.Printf("Attempt %d/%d failed: %v", i+1, retries, lastErr)
		time.Sleep(time.Duration(cfg.Database.RetryDelay) * time.Second)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %v", retries, lastErr)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}
