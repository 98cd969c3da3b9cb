package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all database migrations
func GetMigrations(dbType string) []Migration {
	if dbType == "postgres" {
		return getPostgresMigrations()
	}
	return getSQLiteMigrations()
}

func getPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				username VARCHAR(255) NOT NULL,
				email VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				avatar TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     2,
			Description: "Create sessions table",
			SQL: `CREATE TABLE IF NOT EXISTS sessions (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				access_token VARCHAR(255) NOT NULL,
				refresh_token VARCHAR(255) NOT NULL,
				access_token_valid_until TIMESTAMP WITH TIME ZONE NOT NULL,
				refresh_token_valid_until TIMESTAMP WITH TIME ZONE NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     3,
			Description: "Create notes table",
			SQL: `CREATE TABLE IF NOT EXISTS notes (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title VARCHAR(255) NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				tag VARCHAR(50) NOT NULL DEFAULT 'Todo',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     4,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
			CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
			CREATE INDEX IF NOT EXISTS idx_notes_tag ON notes(user_id, tag)`,
		},
	}
}

func getSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				avatar TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     2,
			Description: "Create sessions table",
			SQL: `CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				access_token TEXT NOT NULL,
				refresh_token TEXT NOT NULL,
				access_token_valid_until TIMESTAMP NOT NULL,
				refresh_token_valid_until TIMESTAMP NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     3,
			Description: "Create notes table",
			SQL: `CREATE TABLE IF NOT EXISTS notes (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				tag TEXT NOT NULL DEFAULT 'Todo',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
		{
			Version:     4,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
			CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
			CREATE INDEX IF NOT EXISTS idx_notes_tag ON notes(user_id, tag)`,
		},
	}
}

// RunMigrations applies all pending migrations in version order.
func RunMigrations(db *sql.DB, dbType string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %v", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("failed to read current schema version: %v", err)
	}

	for _, m := range GetMigrations(dbType) {
		if m.Version <= current {
			continue
		}
		log.Printf("Applying migration %d: %s", m.Version, m.Description)
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %v", m.Version, m.Description, err)
		}
		insert := "INSERT INTO schema_migrations (version) VALUES (?)"
		if dbType == "postgres" {
			insert = "INSERT INTO schema_migrations (version) VALUES ($1)"
		}
		if _, err := db.Exec(insert, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %v", m.Version, err)
		}
	}
	return nil
}
