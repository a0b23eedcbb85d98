package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const adminEmail = "admin@example.com"

// Open opens a SQLite database at the given path, runs migrations, and
// ensures the seeded admin account exists.
func Open(dbPath string) (*sql.DB, error) {
	// _txlock=immediate makes every transaction take the write lock up
	// front, so concurrent redemptions queue instead of failing on
	// snapshot upgrade.
	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := seedAdmin(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// seedAdmin inserts the default admin account if it doesn't exist. The
// password hash has to be generated here rather than in the migration SQL.
func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, adminEmail).Scan(&count); err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("PULSE_ADMIN_PASSWORD")
	if password == "" {
		password = "testing123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO users (name, email, password, role) VALUES ('Admin', ?, ?, 'admin')`,
		adminEmail, string(hash),
	)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
