package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))

type testEnv struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	tokens   *auth.TokenService
	accounts *AccountService
	contacts *ContactService
}

// newTestEnv wires both services against a migrated in-memory SQLite
// database private to the test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := repomanager.OpenDB(ctx, repomanager.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(ctx, db))

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		rm:       rm,
		tokens:   tokens,
		accounts: NewAccountService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost), tokens, logging.Nop{}),
		contacts: NewContactService(db, rm, logging.Nop{}),
	}
}

func (e *testEnv) signup(t *testing.T, name, email, phone string) *AuthResult {
	t.Helper()
	res, err := e.accounts.Signup(context.Background(), SignupInput{
		Name: name, Email: email, Password: "password123", PhoneNumber: phone,
	})
	require.NoError(t, err)
	return res
}
