package database

import (
	"database/sql"

	"dinio/internal/model"
)

const zoneColumns = "id, name, user_id, is_active, disabled, created_at, updated_at"

func scanZone(row *sql.Row) (*model.Zone, error) {
	z := &model.Zone{}
	err := row.Scan(&z.ID, &z.Name, &z.UserID, &z.IsActive, &z.Disabled, &z.CreatedAt, &z.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return z, err
}

// GetZoneForUser returns the zone only when it belongs to the user, so a
// foreign zone looks exactly like a missing one.
func (db *DB) GetZoneForUser(zoneID, userID int64) (*model.Zone, error) {
	return scanZone(db.conn.QueryRow(
		"SELECT "+zoneColumns+" FROM zones WHERE id = $1 AND user_id = $2", zoneID, userID,
	))
}

func (db *DB) GetZoneByName(userID int64, name string) (*model.Zone, error) {
	return scanZone(db.conn.QueryRow(
		"SELECT "+zoneColumns+" FROM zones WHERE name = $1 AND user_id = $2", name, userID,
	))
}

// ListZonesForUser returns the user's zones newest first, each carrying
// the expiry of its most recent order item.
func (db *DB) ListZonesForUser(userID int64) ([]model.Zone, error) {
	rows, err := db.conn.Query(
		`SELECT z.id, z.name, z.user_id, z.is_active, z.disabled, z.created_at, z.updated_at,
		        MAX(oi.valid_until)
		 FROM zones z
		 LEFT JOIN zone_package zp ON zp.zone_id = z.id
		 LEFT JOIN order_items oi ON oi.id = zp.order_item_id
		 WHERE z.user_id = $1
		 GROUP BY z.id
		 ORDER BY z.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []model.Zone
	for rows.Next() {
		var z model.Zone
		var validUntil sql.NullTime
		if err := rows.Scan(&z.ID, &z.Name, &z.UserID, &z.IsActive, &z.Disabled,
			&z.CreatedAt, &z.UpdatedAt, &validUntil); err != nil {
			return nil, err
		}
		if validUntil.Valid {
			z.ValidUntil = validUntil.Time
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// CreateZoneWithNS inserts the zone plus its two default NS records in a
// single transaction. Every new zone starts inactive and gets exactly one
// independent NS pair.
func (db *DB) CreateZoneWithNS(userID int64, name, primaryNS, secondaryNS string) (int64, error) {
	var zoneID int64
	err := db.withTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow(
			"INSERT INTO zones (name, user_id) VALUES ($1, $2) RETURNING id",
			name, userID,
		).Scan(&zoneID); err != nil {
			return err
		}
		for _, ns := range []string{primaryNS, secondaryNS} {
			if _, err := tx.Exec(
				"INSERT INTO records (zone_id, name, type, data, ttl) VALUES ($1, '@', 2, $2, 3600)",
				zoneID, ns,
			); err != nil {
				return err
			}
		}
		return nil
	})
	return zoneID, err
}

func (db *DB) RenameZone(zoneID, userID int64, name string) error {
	_, err := db.conn.Exec(
		"UPDATE zones SET name = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3",
		name, zoneID, userID,
	)
	return err
}

func (db *DB) DeleteZone(zoneID, userID int64) error {
	_, err := db.conn.Exec("DELETE FROM zones WHERE id = $1 AND user_id = $2", zoneID, userID)
	return err
}
