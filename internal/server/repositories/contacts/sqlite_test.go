package contacts

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

// newSQLiteRepo migrates a fresh in-memory database and seeds two owners,
// ids 1 and 2.
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

	_, err = db.Exec(`INSERT INTO users (id, name, email, phone_number, password_hash) VALUES
		(1, 'Owner One', 'one@example.com', '+10000001', 'h'),
		(2, 'Owner Two', 'two@example.com', '+10000002', 'h')`)
	require.NoError(t, err)

	return NewSQLiteRepository(db)
}

func seed(t *testing.T, repo *SQLiteRepository, c models.Contact) *models.Contact {
	t.Helper()
	got, err := repo.Create(context.Background(), &c)
	require.NoError(t, err)
	return got
}

func TestSQLiteRepository_CRUD(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	c := seed(t, repo, models.Contact{UserID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "+12345678"})
	assert.NotZero(t, c.ID)

	c.FirstName = "Janet"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.FirstName)
	assert.Equal(t, int64(1), got.UserID)

	byEmail, err := repo.FindByOwnerAndEmail(ctx, 1, "JANE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	_, err = repo.FindByOwnerAndEmail(ctx, 2, "jane@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)

	byPhone, err := repo.FindByOwnerAndPhoneNumber(ctx, 1, "+12345678")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byPhone.ID)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), common.ErrNotFound)
}

func TestSQLiteRepository_UniquePerOwner(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	seed(t, repo, models.Contact{UserID: 1, FirstName: "Jane", Email: "jane@example.com", PhoneNumber: "+12345678"})

	_, err := repo.Create(ctx, &models.Contact{UserID: 1, FirstName: "Dup", Email: "JANE@example.com", PhoneNumber: "+19999999"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = repo.Create(ctx, &models.Contact{UserID: 1, FirstName: "Dup", Email: "dup@example.com", PhoneNumber: "+12345678"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	// The same details are fine under another owner.
	other := seed(t, repo, models.Contact{UserID: 2, FirstName: "Jane", Email: "jane@example.com", PhoneNumber: "+12345678"})
	assert.NotZero(t, other.ID)
}

func TestSQLiteRepository_UpdateScopedToOwner(t *testing.T) {
	repo := newSQLiteRepo(t)

	c := seed(t, repo, models.Contact{UserID: 1, FirstName: "Jane", Email: "jane@example.com", PhoneNumber: "+12345678"})
	c.UserID = 2
	assert.ErrorIs(t, repo.Update(context.Background(), c), common.ErrNotFound)
}

func TestSQLiteRepository_ListAndSearch(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	jane := seed(t, repo, models.Contact{UserID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "+12345678"})
	john := seed(t, repo, models.Contact{UserID: 1, FirstName: "John", LastName: "Smith", Email: "js@work.org", PhoneNumber: "+15550001"})
	pct := seed(t, repo, models.Contact{UserID: 1, FirstName: "Percy", LastName: "100%", Email: "percy@example.com", PhoneNumber: "+15550002"})
	seed(t, repo, models.Contact{UserID: 2, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "+12345678"})

	all, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{jane.ID, john.ID, pct.ID}, ids(all))

	tests := []struct {
		query string
		want  []int64
	}{
		{"doe", []int64{jane.ID}},
		{"JOHN", []int64{john.ID}},
		{"example.com", []int64{jane.ID, pct.ID}},
		{"555", []int64{john.ID, pct.ID}},
		{"%", []int64{pct.ID}},
		{"_", []int64{}},
		{"", []int64{jane.ID, john.ID, pct.ID}},
		{"nobody", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.Search(ctx, 1, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	empty, err := repo.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSQLiteRepository_SearchNonASCII(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	omer := seed(t, repo, models.Contact{UserID: 1, FirstName: "ÖMER", LastName: "Çelik", Email: "omer@example.com", PhoneNumber: "+905551234"})
	seed(t, repo, models.Contact{UserID: 1, FirstName: "Jane", Email: "jane@example.com", PhoneNumber: "+12345678"})

	// SQLite folds ASCII only, so the non-ASCII letters have to match as stored.
	for _, q := range []string{"ÖMER", "Ömer", "ÖME", "Çelik", "ÇELIK"} {
		t.Run(q, func(t *testing.T) {
			got, err := repo.Search(ctx, 1, q)
			require.NoError(t, err)
			assert.Equal(t, []int64{omer.ID}, ids(got))
		})
	}
}

func ids(cs []*models.Contact) []int64 {
	out := make([]int64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
