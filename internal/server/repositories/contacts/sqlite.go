package contacts

import "github.com/dmitrijs2005/contactkeeper/internal/dbx"

const sqliteColumns = `id, user_id, first_name, last_name, email, phone_number, created_at`

var sqliteQueries = queries{
	create: `INSERT INTO contacts (user_id, first_name, last_name, email, phone_number)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`,
	findByID: `SELECT ` + sqliteColumns + ` FROM contacts
		WHERE id = ?`,
	findByOwnerAndEmail: `SELECT ` + sqliteColumns + ` FROM contacts
		WHERE user_id = ? AND LOWER(email) = LOWER(?)`,
	findByOwnerAndPhoneNumber: `SELECT ` + sqliteColumns + ` FROM contacts
		WHERE user_id = ? AND phone_number = ?`,
	listByOwner: `SELECT ` + sqliteColumns + ` FROM contacts
		WHERE user_id = ?
		ORDER BY id`,
	search: `SELECT ` + sqliteColumns + ` FROM contacts
		WHERE user_id = ? AND (
			LOWER(first_name) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(last_name) LIKE LOWER(?) ESCAPE '\'
			OR LOWER(email) LIKE LOWER(?) ESCAPE '\'
			OR phone_number LIKE ? ESCAPE '\'
		)
		ORDER BY id`,
	searchPatternArgs: 4,
	update: `UPDATE contacts
		SET first_name = ?, last_name = ?, email = ?, phone_number = ?
		WHERE id = ? AND user_id = ?`,
	delete: `DELETE FROM contacts
		WHERE id = ?`,
}

// SQLiteRepository is the SQLite implementation of Repository.
type SQLiteRepository struct {
	store
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{store{db: db, q: &sqliteQueries}}
}
