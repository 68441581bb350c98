package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/flight-demand-go/internal/logger"
	_ "modernc.org/sqlite"
)

// MemoryPath keeps the booking store in memory for the life of the process.
const MemoryPath = ":memory:"

// Config holds database configuration
type Config struct {
	Path string
}

// Open opens the sqlite booking store and applies pragmas.
func Open(cfg Config) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = MemoryPath
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if isMemory(path) {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return db, nil
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.Contains(path, "mode=memory")
}

// Transaction executes fn within a transaction, rolling back on error or panic.
func Transaction(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
