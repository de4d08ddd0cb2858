package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/binfill/pkg/db"
)

// GetUsers retrieves all user records
func (d *DB) GetUsers(ctx context.Context) ([]db.UserRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT username, COALESCE(itemid, ''), COALESCE(instance_name, ''),
			lat::text, lon::text, user_type, dim_factor::text
		FROM users
		ORDER BY username
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
	rows, err := d.pool.Query(ctx, `
		SELECT itemid, COALESCE(instance_name, ''), lat::text, lon::text,
			COALESCE(parent, ''), waste_fraction, COALESCE(con_type, ''), capacity::text
		FROM containers
		ORDER BY itemid
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
