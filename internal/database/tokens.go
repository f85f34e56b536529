package database

import (
	"database/sql"
	"time"

	"dinio/internal/model"
)

func (db *DB) CreateUserToken(token string, userID int64, tokenType string, expiresAt time.Time) error {
	_, err := db.conn.Exec(
		"INSERT INTO user_tokens (token, user_id, type, expires_at) VALUES ($1, $2, $3, $4)",
		token, userID, tokenType, expiresAt,
	)
	return err
}

func (db *DB) GetUserToken(token, tokenType string) (*model.UserToken, error) {
	t := &model.UserToken{}
	err := db.conn.QueryRow(
		"SELECT token, user_id, type, expires_at, created_at FROM user_tokens WHERE token = $1 AND type = $2",
		token, tokenType,
	).Scan(&t.Token, &t.UserID, &t.Type, &t.ExpiresAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (db *DB) DeleteUserToken(token string) error {
	_, err := db.conn.Exec("DELETE FROM user_tokens WHERE token = $1", token)
	return err
}

func (db *DB) PurgeExpiredTokens() error {
	_, err := db.conn.Exec("DELETE FROM user_tokens WHERE expires_at < NOW()")
	return err
}
