package users

import "github.com/dmitrijs2005/contactkeeper/internal/dbx"

var sqliteQueries = queries{
	create: `INSERT INTO users (name, email, phone_number, password_hash)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at`,
	findByID: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE id = ?`,
	findByEmail: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE LOWER(email) = LOWER(?)`,
	findByPhoneNumber: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE phone_number = ?`,
	updatePasswordHash: `UPDATE users SET password_hash = ?
		WHERE id = ?`,
}

// SQLiteRepository is the SQLite implementation of Repository.
type SQLiteRepository struct {
	store
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{store{db: db, q: &sqliteQueries}}
}
