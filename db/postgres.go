package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Initialize opens and pings a Postgres connection. The handle is passed
// around explicitly; there is no package-level instance.
func Initialize(cfg Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	database, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err = database.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return database, nil
}
