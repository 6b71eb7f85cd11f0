package contacts

import "github.com/dmitrijs2005/contactkeeper/internal/dbx"

const postgresColumns = `id, user_id, first_name, last_name, email, phone_number, created_at`

var postgresQueries = queries{
	create: `INSERT INTO contacts (user_id, first_name, last_name, email, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
	findByID: `SELECT ` + postgresColumns + ` FROM contacts
		WHERE id = $1`,
	findByOwnerAndEmail: `SELECT ` + postgresColumns + ` FROM contacts
		WHERE user_id = $1 AND LOWER(email) = LOWER($2)`,
	findByOwnerAndPhoneNumber: `SELECT ` + postgresColumns + ` FROM contacts
		WHERE user_id = $1 AND phone_number = $2`,
	listByOwner: `SELECT ` + postgresColumns + ` FROM contacts
		WHERE user_id = $1
		ORDER BY id`,
	search: `SELECT ` + postgresColumns + ` FROM contacts
		WHERE user_id = $1 AND (
			LOWER(first_name) LIKE LOWER($2) ESCAPE '\'
			OR LOWER(last_name) LIKE LOWER($2) ESCAPE '\'
			OR LOWER(email) LIKE LOWER($2) ESCAPE '\'
			OR phone_number LIKE $2 ESCAPE '\'
		)
		ORDER BY id`,
	searchPatternArgs: 1,
	update: `UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4
		WHERE id = $5 AND user_id = $6`,
	delete: `DELETE FROM contacts
		WHERE id = $1`,
}

// PostgresRepository is the PostgreSQL implementation of Repository.
type PostgresRepository struct {
	store
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{store{db: db, q: &postgresQueries}}
}
