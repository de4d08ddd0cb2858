package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jakechorley/binfill/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY,
	itemid        TEXT,
	instance_name TEXT,
	lat           REAL NOT NULL,
	lon           REAL NOT NULL,
	user_type     TEXT NOT NULL,
	dim_factor    REAL NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS containers (
	itemid         TEXT PRIMARY KEY,
	instance_name  TEXT,
	lat            REAL NOT NULL,
	lon            REAL NOT NULL,
	parent         TEXT,
	waste_fraction TEXT NOT NULL,
	con_type       TEXT,
	capacity       REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_containers_waste_fraction ON containers(waste_fraction);
`

// DB reads model records from a SQLite database
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDB opens the SQLite database at dsn
func NewDB(dsn string, logger *zap.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure sqlite database: %w", err)
	}
	return &DB{db: conn, logger: logger}, nil
}

// Close closes the database
func (d *DB) Close() {
	if err := d.db.Close(); err != nil {
		d.logger.Warn("Failed to close sqlite database", zap.Error(err))
	}
}

// RunMigrations creates the users and containers tables if they don't exist
func (d *DB) RunMigrations(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return nil
}

// GetUsers retrieves all user records
func (d *DB) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT username, COALESCE(itemid, ''), COALESCE(instance_name, ''),
			CAST(lat AS TEXT), CAST(lon AS TEXT), user_type, CAST(dim_factor AS TEXT)
		FROM users
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []db.UserRecord
	for rows.Next() {
		var u db.UserRecord
		if err := rows.Scan(&u.Username, &u.ItemID, &u.Name, &u.Lat, &u.Lon, &u.UserType, &u.DimFactor); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetContainers retrieves all container records
func (d *DB) GetContainers(ctx context.Context) ([]db.ContainerRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT itemid, COALESCE(instance_name, ''), CAST(lat AS TEXT), CAST(lon AS TEXT),
			COALESCE(parent, ''), waste_fraction, COALESCE(con_type, ''), CAST(capacity AS TEXT)
		FROM containers
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query containers: %w", err)
	}
	defer rows.Close()

	var containers []db.ContainerRecord
	for rows.Next() {
		var c db.ContainerRecord
		if err := rows.Scan(&c.ItemID, &c.Name, &c.Lat, &c.Lon, &c.Parent, &c.WasteFraction, &c.ConType, &c.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan container: %w", err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating containers: %w", err)
	}

	return containers, nil
}
