package database

import (
	"database/sql"

	"dinio/internal/model"
)

// CreateRecordWithForwarding inserts the CNAME record and its forwarding
// rule atomically; a failed forwarding insert must not leave a dangling
// record behind.
func (db *DB) CreateRecordWithForwarding(rec *model.Record, fwd *model.Forwarding) (int64, error) {
	var recordID int64
	err := db.withTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow(
			"INSERT INTO records (zone_id, name, type, data, ttl) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			rec.ZoneID, rec.Name, rec.Type, rec.Data, rec.TTL,
		).Scan(&recordID); err != nil {
			return err
		}
		_, err := tx.Exec(
			"INSERT INTO forwarding (record_id, destination_url, forward_type, disabled) VALUES ($1, $2, $3, $4)",
			recordID, fwd.DestinationURL, fwd.ForwardType, fwd.Disabled,
		)
		return err
	})
	return recordID, err
}

// ListForwardingForZone returns the zone's forwarding rules keyed by the
// CNAME record they belong to.
func (db *DB) ListForwardingForZone(zoneID int64) (map[int64]model.Forwarding, error) {
	rows, err := db.conn.Query(
		`SELECT f.id, f.record_id, f.destination_url, f.forward_type, f.disabled, f.created_at
		 FROM forwarding f
		 JOIN records r ON r.id = f.record_id
		 WHERE r.zone_id = $1`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Forwarding)
	for rows.Next() {
		var f model.Forwarding
		if err := rows.Scan(&f.ID, &f.RecordID, &f.DestinationURL, &f.ForwardType, &f.Disabled, &f.CreatedAt); err != nil {
			return nil, err
		}
		result[f.RecordID] = f
	}
	return result, rows.Err()
}

func (db *DB) GetForwardingForRecord(recordID int64) (*model.Forwarding, error) {
	f := &model.Forwarding{}
	err := db.conn.QueryRow(
		"SELECT id, record_id, destination_url, forward_type, disabled, created_at FROM forwarding WHERE record_id = $1",
		recordID,
	).Scan(&f.ID, &f.RecordID, &f.DestinationURL, &f.ForwardType, &f.Disabled, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
