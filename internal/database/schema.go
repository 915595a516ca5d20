package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS upload_sessions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_code VARCHAR(64) NOT NULL UNIQUE,
		user_id INT NOT NULL,
		filename VARCHAR(255) NOT NULL,
		sheet_name VARCHAR(255) NOT NULL DEFAULT '',
		total_rows INT NOT NULL DEFAULT 0,
		column_count INT NOT NULL DEFAULT 0,
		has_po_code BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(20) NOT NULL,
		error_message TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_upload_sessions_user (user_id),
		INDEX idx_upload_sessions_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables the application needs when they are missing
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
