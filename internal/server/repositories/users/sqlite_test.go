package users

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	fsys, err := fs.Sub(migrations.Migrations, "sqlite")
	require.NoError(t, err)
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	require.NoError(t, err)
	_, err = provider.Up(context.Background())
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "Alice@Example.com", PhoneNumber: "+12345678", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "Alice@Example.com", byEmail.Email)

	byPhone, err := repo.FindByPhoneNumber(ctx, "+12345678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	require.NoError(t, repo.UpdatePasswordHash(ctx, created.ID, "h2"))
	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", byID.PasswordHash)
}

func TestSQLiteRepository_Uniqueness(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com", PhoneNumber: "+12345678", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Name: "Other", Email: "ALICE@example.com", PhoneNumber: "+87654321", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = repo.Create(ctx, &models.User{Name: "Other", Email: "other@example.com", PhoneNumber: "+12345678", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.FindByPhoneNumber(ctx, "+10000000")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, 404, "h"), common.ErrNotFound)
}
