package database

import (
	"database/sql"
	"time"
)

func (db *DB) CreateSession(token, csrfToken string, userID int64, expiresAt time.Time) error {
	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, csrf_token, user_id, expires_at) VALUES ($1, $2, $3, $4)",
		token, csrfToken, userID, expiresAt,
	)
	return err
}

func (db *DB) GetSession(token string) (int64, string, time.Time, error) {
	var userID int64
	var csrfToken string
	var expiresAt time.Time
	err := db.conn.QueryRow(
		"SELECT user_id, csrf_token, expires_at FROM sessions WHERE token = $1", token,
	).Scan(&userID, &csrfToken, &expiresAt)
	if err == sql.ErrNoRows {
		return 0, "", time.Time{}, nil
	}
	if err != nil {
		return 0, "", time.Time{}, err
	}
	return userID, csrfToken, expiresAt, nil
}

func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (db *DB) PurgeExpiredSessions() error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at < NOW()")
	return err
}
