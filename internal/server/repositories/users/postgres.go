package users

import "github.com/dmitrijs2005/contactkeeper/internal/dbx"

var postgresQueries = queries{
	create: `INSERT INTO users (name, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
	findByID: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE id = $1`,
	findByEmail: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE LOWER(email) = LOWER($1)`,
	findByPhoneNumber: `SELECT id, name, email, phone_number, password_hash, created_at FROM users
		WHERE phone_number = $1`,
	updatePasswordHash: `UPDATE users SET password_hash = $1
		WHERE id = $2`,
}

// PostgresRepository is the PostgreSQL implementation of Repository.
type PostgresRepository struct {
	store
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{store{db: db, q: &postgresQueries}}
}
