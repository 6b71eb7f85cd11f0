package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	byEmail map[string]*models.User
	byPhone map[string]*models.User
	err     error
	calls   []string
}

func (f *fakeLookup) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.calls = append(f.calls, "email:"+email)
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeLookup) FindByPhoneNumber(_ context.Context, phone string) (*models.User, error) {
	f.calls = append(f.calls, "phone:"+phone)
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func TestResolve_ByEmail(t *testing.T) {
	u := &models.User{ID: 7, Email: "a@x.com", PhoneNumber: "+19998887777"}
	lookup := &fakeLookup{byEmail: map[string]*models.User{"a@x.com": u}}

	p, err := NewIdentityResolver(lookup).Resolve(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, &Principal{UserID: 7, Email: "a@x.com"}, p)
	assert.Equal(t, []string{"email:a@x.com"}, lookup.calls)
}

func TestResolve_FallsBackToPhone(t *testing.T) {
	u := &models.User{ID: 7, Email: "a@x.com", PhoneNumber: "+19998887777"}
	lookup := &fakeLookup{byPhone: map[string]*models.User{"+19998887777": u}}

	p, err := NewIdentityResolver(lookup).Resolve(context.Background(), "+19998887777")
	require.NoError(t, err)
	assert.Equal(t, &Principal{UserID: 7, Email: "a@x.com"}, p)
	assert.Equal(t, []string{"email:+19998887777", "phone:+19998887777"}, lookup.calls)
}

func TestResolve_NotFound(t *testing.T) {
	_, err := NewIdentityResolver(&fakeLookup{}).Resolve(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResolve_StoreError(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("db down")}

	_, err := NewIdentityResolver(lookup).Resolve(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := PrincipalFromContext(ctx)
	assert.False(t, ok)

	ctx = WithPrincipal(ctx, &Principal{UserID: 1, Email: "a@x.com"})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), p.UserID)

	_, ok = PrincipalFromContext(WithPrincipal(context.Background(), nil))
	assert.False(t, ok)
}
