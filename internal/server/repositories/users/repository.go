package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

// Repository stores user accounts. Email lookups are case-insensitive;
// phone numbers are compared exactly.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// queries holds the dialect-specific statements.
type queries struct {
	create             string
	findByID           string
	findByEmail        string
	findByPhoneNumber  string
	updatePasswordHash string
}

// store implements Repository on top of a dialect's queries.
type store struct {
	db dbx.DBTX
	q  *queries
}

func (r *store) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.QueryRowContext(ctx, r.q.create,
		user.Name, user.Email, user.PhoneNumber, user.PasswordHash).Scan(&user.ID, dbx.Timestamp(&user.CreatedAt))

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *store) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, r.q.findByID, id)
}

func (r *store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, r.q.findByEmail, email)
}

func (r *store) FindByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, r.q.findByPhoneNumber, phone)
}

func (r *store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, r.q.updatePasswordHash, hash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *store) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash, dbx.Timestamp(&user.CreatedAt))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
