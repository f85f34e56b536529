package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"dinio/internal/model"
)

const userColumns = "id, email, username, first_name, last_name, pass_hash, verified, admin, auth_source, created_at, updated_at"

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PassHash, &u.Verified, &u.Admin, &u.AuthSource, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (db *DB) GetUserByID(id int64) (*model.User, error) {
	return scanUser(db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = $1", id,
	))
}

func (db *DB) GetUserByEmail(email string) (*model.User, error) {
	return scanUser(db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE email = $1", email,
	))
}

func (db *DB) ListUsers() ([]model.User, error) {
	rows, err := db.conn.Query("SELECT " + userColumns + " FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.PassHash, &u.Verified, &u.Admin, &u.AuthSource, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (db *DB) CreateUser(email, username, firstName, lastName, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.conn.QueryRow(
		`INSERT INTO users (email, username, first_name, last_name, pass_hash)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		email, username, firstName, lastName, string(hash),
	).Scan(&id)
	return id, err
}

// AdminCreateUser creates an account from the admin panel. These skip the
// email confirmation round-trip.
func (db *DB) AdminCreateUser(email, username, firstName, lastName, password string, admin bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.conn.QueryRow(
		`INSERT INTO users (email, username, first_name, last_name, pass_hash, verified, admin)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6) RETURNING id`,
		email, username, firstName, lastName, string(hash), admin,
	).Scan(&id)
	return id, err
}

// CreateLDAPUser provisions (or refreshes) a directory-backed account.
// Directory users arrive pre-verified; there is no password to store.
func (db *DB) CreateLDAPUser(email, username string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		`INSERT INTO users (email, username, pass_hash, verified, auth_source)
		 VALUES ($1, $2, '', TRUE, 'ldap')
		 ON CONFLICT(email) DO UPDATE SET
		   username = $3, auth_source = 'ldap', updated_at = NOW()
		 RETURNING id`,
		email, username, username,
	).Scan(&id)
	return id, err
}

func (db *DB) UpdateUserPassword(userID int64, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec("UPDATE users SET pass_hash = $1, updated_at = NOW() WHERE id = $2",
		string(hash), userID)
	return err
}

func (db *DB) SetUserVerified(userID int64) error {
	_, err := db.conn.Exec("UPDATE users SET verified = TRUE, updated_at = NOW() WHERE id = $1", userID)
	return err
}

func (db *DB) DeleteUser(userID int64) error {
	_, err := db.conn.Exec("DELETE FROM users WHERE id = $1", userID)
	return err
}

// AuthenticateUser verifies an email/password pair against the local
// store. Returns (nil, nil) on bad credentials.
func (db *DB) AuthenticateUser(email, password string) (*model.User, error) {
	u, err := db.GetUserByEmail(email)
	if err != nil || u == nil || u.AuthSource != "local" {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)); err != nil {
		return nil, nil
	}
	return u, nil
}
