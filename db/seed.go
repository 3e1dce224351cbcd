package db

import (
	"database/sql"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// SeedData creates a bootstrap admin when SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD are set. Safe to run repeatedly.
func SeedData(database *sql.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing seed admin password: %w", err)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO admins (email, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`, email, "Administrator", string(hash))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error seeding admin: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
