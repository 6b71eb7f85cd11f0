package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
)

// UserLookup is the part of the users repository the resolver needs.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*models.User, error)
}

// IdentityResolver turns a verified token subject into a Principal.
type IdentityResolver struct {
	users UserLookup
}

func NewIdentityResolver(users UserLookup) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve looks the subject up as an email first and as a phone number
// second. It returns common.ErrNotFound when neither matches, e.g. when the
// user disappeared after the token was issued.
func (r *IdentityResolver) Resolve(ctx context.Context, subject string) (*Principal, error) {
	user, err := r.users.FindByEmail(ctx, subject)
	if errors.Is(err, common.ErrNotFound) {
		user, err = r.users.FindByPhoneNumber(ctx, subject)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &Principal{UserID: user.ID, Email: user.Email}, nil
}
