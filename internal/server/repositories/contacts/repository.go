// Package contacts persists contact records. Every query that reads more
// than one row is scoped to a single owner.
package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	FindByID(ctx context.Context, id int64) (*models.Contact, error)
	FindByOwnerAndEmail(ctx context.Context, ownerID int64, email string) (*models.Contact, error)
	FindByOwnerAndPhoneNumber(ctx context.Context, ownerID int64, phone string) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Contact, error)
	Search(ctx context.Context, ownerID int64, query string) ([]*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id int64) error
}

type queries struct {
	create                    string
	findByID                  string
	findByOwnerAndEmail       string
	findByOwnerAndPhoneNumber string
	listByOwner               string
	search                    string
	searchPatternArgs         int // how many times the search pattern is bound
	update                    string
	delete                    string
}

type store struct {
	db dbx.DBTX
	q  *queries
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, dbx.Timestamp(&c.CreatedAt))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// likePattern turns free text into a LIKE pattern matching it as a
// substring. Wildcards in the input are escaped with '\'. Case is folded in
// SQL with LOWER on both sides so the pattern and the columns agree.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

func (r *store) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	err := r.db.QueryRowContext(ctx, r.q.create,
		contact.UserID, contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
	).Scan(&contact.ID, dbx.Timestamp(&contact.CreatedAt))

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *store) FindByID(ctx context.Context, id int64) (*models.Contact, error) {
	return r.findOne(ctx, r.q.findByID, id)
}

func (r *store) FindByOwnerAndEmail(ctx context.Context, ownerID int64, email string) (*models.Contact, error) {
	return r.findOne(ctx, r.q.findByOwnerAndEmail, ownerID, email)
}

func (r *store) FindByOwnerAndPhoneNumber(ctx context.Context, ownerID int64, phone string) (*models.Contact, error) {
	return r.findOne(ctx, r.q.findByOwnerAndPhoneNumber, ownerID, phone)
}

func (r *store) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Contact, error) {
	return r.findMany(ctx, r.q.listByOwner, ownerID)
}

func (r *store) Search(ctx context.Context, ownerID int64, query string) ([]*models.Contact, error) {
	pattern := likePattern(query)
	args := []any{ownerID}
	for i := 0; i < r.q.searchPatternArgs; i++ {
		args = append(args, pattern)
	}
	return r.findMany(ctx, r.q.search, args...)
}

func (r *store) Update(ctx context.Context, contact *models.Contact) error {
	res, err := r.db.ExecContext(ctx, r.q.update,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber, contact.ID, contact.UserID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *store) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q.delete, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (r *store) findOne(ctx context.Context, query string, args ...any) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *store) findMany(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
