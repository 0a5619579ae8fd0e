package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/m4sterbait/GROUP-NI-RAMOS/util/hash"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('admin','student')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available','borrowed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS borrows (
		id BIGSERIAL PRIMARY KEY,
		book_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id),
		borrow_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		return_date TEXT,
		status TEXT NOT NULL DEFAULT 'borrowed' CHECK (status IN ('borrowed','returned'))
	)`,
}

// Migrate applies the schema and seeds the catalog and the default admin
// account on first run.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if err := seedBooks(ctx, db, log); err != nil {
		return err
	}
	return seedAdmin(ctx, db, log)
}

func seedBooks(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	seed := [][3]string{
		{"Philippine Literature", "Bienvenido Lumbera", "Literature"},
		{"General Psychology", "Kendra Cherry", "Psychology"},
		{"Calculus", "George B. Thomas", "Mathematics"},
		{"Philippine Politics", "Randy M. Tuano", "Politics"},
	}
	for _, b := range seed {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO books (title, author, category) VALUES ($1,$2,$3)`,
			b[0], b[1], b[2],
		); err != nil {
			return err
		}
	}
	log.Info("seeded sample catalog", "books", len(seed))
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'admin')`,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	hashed, err := hash.Password("admin123")
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ('admin', $1, 'admin')`,
		hashed,
	); err != nil {
		return err
	}
	log.Info("default admin account created", "username", "admin")
	return nil
}
