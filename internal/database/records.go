package database

import (
	"database/sql"

	"dinio/internal/model"
)

const recordColumns = "id, zone_id, name, type, data, ttl, disabled, created_at, updated_at"

func (db *DB) ListRecords(zoneID int64) ([]model.Record, error) {
	rows, err := db.conn.Query(
		"SELECT "+recordColumns+" FROM records WHERE zone_id = $1 ORDER BY id", zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (db *DB) ListNSRecords(zoneID int64) ([]model.Record, error) {
	rows, err := db.conn.Query(
		"SELECT "+recordColumns+" FROM records WHERE zone_id = $1 AND type = 2 ORDER BY id", zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]model.Record, error) {
	var records []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.Name, &r.Type, &r.Data, &r.TTL,
			&r.Disabled, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (db *DB) GetRecord(zoneID, recordID int64) (*model.Record, error) {
	r := &model.Record{}
	err := db.conn.QueryRow(
		"SELECT "+recordColumns+" FROM records WHERE id = $1 AND zone_id = $2",
		recordID, zoneID,
	).Scan(&r.ID, &r.ZoneID, &r.Name, &r.Type, &r.Data, &r.TTL, &r.Disabled, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RecordExists reports whether the (name, type, data) tuple already exists
// within the zone.
func (db *DB) RecordExists(zoneID int64, name string, rtype uint16, data string) (bool, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM records WHERE zone_id = $1 AND name = $2 AND type = $3 AND data = $4",
		zoneID, name, rtype, data,
	).Scan(&n)
	return n > 0, err
}

func (db *DB) CreateRecord(rec *model.Record) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		"INSERT INTO records (zone_id, name, type, data, ttl) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		rec.ZoneID, rec.Name, rec.Type, rec.Data, rec.TTL,
	).Scan(&id)
	return id, err
}

func (db *DB) UpdateRecord(zoneID, recordID int64, name string, rtype uint16, data string, ttl int64) error {
	_, err := db.conn.Exec(
		`UPDATE records SET name = $1, type = $2, data = $3, ttl = $4, updated_at = NOW()
		 WHERE id = $5 AND zone_id = $6`,
		name, rtype, data, ttl, recordID, zoneID,
	)
	return err
}

// UpdateNameserverPair rewrites the data of both NS records in one
// transaction. The statements are scoped to type 2 so a stale or forged id
// cannot touch anything else.
func (db *DB) UpdateNameserverPair(zoneID, primaryID, secondaryID int64, primaryData, secondaryData string) error {
	return db.withTx(func(tx *sql.Tx) error {
		for _, u := range []struct {
			id   int64
			data string
		}{{primaryID, primaryData}, {secondaryID, secondaryData}} {
			if _, err := tx.Exec(
				"UPDATE records SET data = $1, updated_at = NOW() WHERE id = $2 AND zone_id = $3 AND type = 2",
				u.data, u.id, zoneID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetNonNSRecordsDisabled flips every record in the zone except the NS
// records, the cascade half of the bring-your-own-nameservers rule.
func (db *DB) SetNonNSRecordsDisabled(zoneID int64, disabled bool) error {
	_, err := db.conn.Exec(
		"UPDATE records SET disabled = $1, updated_at = NOW() WHERE zone_id = $2 AND type <> 2",
		disabled, zoneID,
	)
	return err
}

// DeleteRecordCascade removes the record and any forwarding rule attached
// to it in one transaction, so no orphaned forwarding rows are left behind.
func (db *DB) DeleteRecordCascade(zoneID, recordID int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM forwarding WHERE record_id = $1", recordID); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM records WHERE id = $1 AND zone_id = $2", recordID, zoneID)
		return err
	})
}
