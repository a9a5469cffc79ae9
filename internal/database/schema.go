package database

import (
	"context"
	"database/sql"
	"fmt"
)

// mysqlSchema and sqliteSchema create the same tables.  SQLite keeps plain
// DATETIME so the driver hands back time.Time.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS objects (
		id                 CHAR(36)     NOT NULL PRIMARY KEY,
		number             VARCHAR(16)  NOT NULL UNIQUE,
		name               VARCHAR(255) NOT NULL,
		codename           VARCHAR(255) NOT NULL,
		threat_class       VARCHAR(128) NOT NULL,
		description        TEXT         NOT NULL,
		special_procedures TEXT         NULL,
		secret_data        TEXT         NULL,
		image_url          TEXT         NULL,
		created_at         DATETIME(6)  NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		username        VARCHAR(64)  NOT NULL UNIQUE,
		password_hash   VARCHAR(255) NOT NULL,
		clearance_level TINYINT      NOT NULL,
		is_active       BOOLEAN      NOT NULL DEFAULT TRUE,
		is_admin        BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at      DATETIME(6)  NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         CHAR(36)    NOT NULL PRIMARY KEY,
		user_id    CHAR(36)    NOT NULL,
		token_hash CHAR(64)    NOT NULL UNIQUE,
		expires_at DATETIME(6) NOT NULL,
		revoked_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_refresh_tokens_user (user_id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		session_id      VARCHAR(128) NOT NULL,
		user_id         CHAR(36)     NULL,
		role            VARCHAR(16)  NOT NULL,
		content         TEXT         NOT NULL,
		emotion         VARCHAR(16)  NULL,
		fallback        BOOLEAN      NOT NULL DEFAULT FALSE,
		fallback_reason VARCHAR(255) NULL,
		created_at      DATETIME(6)  NOT NULL,
		INDEX idx_chat_messages_session (session_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS dossier_submissions (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		user_id       CHAR(36)     NOT NULL,
		username      VARCHAR(64)  NOT NULL,
		file_name     VARCHAR(255) NOT NULL,
		file_data     LONGTEXT     NOT NULL,
		file_type     VARCHAR(128) NOT NULL,
		file_size     BIGINT       NOT NULL,
		status        VARCHAR(16)  NOT NULL,
		submitted_at  DATETIME(6)  NOT NULL,
		reviewed_at   DATETIME(6)  NULL,
		reviewed_by   VARCHAR(64)  NULL,
		admin_comment TEXT         NULL,
		INDEX idx_dossier_user_status (user_id, status),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS objects (
		id                 TEXT     NOT NULL PRIMARY KEY,
		number             TEXT     NOT NULL UNIQUE,
		name               TEXT     NOT NULL,
		codename           TEXT     NOT NULL,
		threat_class       TEXT     NOT NULL,
		description        TEXT     NOT NULL,
		special_procedures TEXT     NULL,
		secret_data        TEXT     NULL,
		image_url          TEXT     NULL,
		created_at         DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT     NOT NULL PRIMARY KEY,
		username        TEXT     NOT NULL UNIQUE,
		password_hash   TEXT     NOT NULL,
		clearance_level INTEGER  NOT NULL,
		is_active       BOOLEAN  NOT NULL DEFAULT 1,
		is_admin        BOOLEAN  NOT NULL DEFAULT 0,
		created_at      DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         TEXT     NOT NULL PRIMARY KEY,
		user_id    TEXT     NOT NULL REFERENCES users(id),
		token_hash TEXT     NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens (user_id)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id              TEXT     NOT NULL PRIMARY KEY,
		session_id      TEXT     NOT NULL,
		user_id         TEXT     NULL,
		role            TEXT     NOT NULL,
		content         TEXT     NOT NULL,
		emotion         TEXT     NULL,
		fallback        BOOLEAN  NOT NULL DEFAULT 0,
		fallback_reason TEXT     NULL,
		created_at      DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS dossier_submissions (
		id            TEXT     NOT NULL PRIMARY KEY,
		user_id       TEXT     NOT NULL REFERENCES users(id),
		username      TEXT     NOT NULL,
		file_name     TEXT     NOT NULL,
		file_data     TEXT     NOT NULL,
		file_type     TEXT     NOT NULL,
		file_size     INTEGER  NOT NULL,
		status        TEXT     NOT NULL,
		submitted_at  DATETIME NOT NULL,
		reviewed_at   DATETIME NULL,
		reviewed_by   TEXT     NULL,
		admin_comment TEXT     NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dossier_user_status ON dossier_submissions (user_id, status)`,
}

// Migrate creates any missing tables for the given driver.  It is safe to
// run on every start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case MySQL:
		stmts = mysqlSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("database: unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
