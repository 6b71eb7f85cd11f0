// Package services holds the business operations behind the REST handlers.
// Services own transactions and translate repository errors into the
// sentinels of package common.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/users"
)

// TokenIssuer mints a signed token for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

type LoginInput struct {
	EmailOrPhone string
	Password     string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string           `json:"token"`
	User  *models.UserView `json:"user"`
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	tokens TokenIssuer, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "accounts"),
	}
}

// Signup registers a new user and signs them in.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	s.logger.Info(ctx, "signup attempt", "email", in.Email)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := s.isTaken(ctx, repo, in.Email, in.PhoneNumber)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrAlreadyExists
		}

		user, err = repo.Create(ctx, &models.User{
			Name:         in.Name,
			Email:        in.Email,
			PhoneNumber:  in.PhoneNumber,
			PasswordHash: hash,
		})
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			s.logger.Warn(ctx, "signup rejected, user already exists", "email", in.Email)
			return nil, fmt.Errorf("%w: user with this email or phone number already exists", common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.View()}, nil
}

// Login authenticates by email or phone number and issues a new token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	s.logger.Info(ctx, "login attempt", "identifier", in.EmailOrPhone)

	user, err := s.findByEmailOrPhone(ctx, s.repomanager.Users(s.db), in.EmailOrPhone)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "login failed, unknown identifier", "identifier", in.EmailOrPhone)
			return nil, fmt.Errorf("%w: invalid email or phone number", common.ErrNotFound)
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.Warn(ctx, "login failed, wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid password", common.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.View()}, nil
}

// ChangePassword replaces the password of userID after checking the current
// one. Tokens already issued stay valid.
func (s *AccountService) ChangePassword(ctx context.Context, in ChangePasswordInput, userID int64) (*models.UserView, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrNotFound)
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		s.logger.Warn(ctx, "password change rejected, wrong current password", "user_id", userID)
		return nil, fmt.Errorf("%w: current password is incorrect", common.ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrNotFound)
		}
		return nil, fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return user.View(), nil
}

func (s *AccountService) isTaken(ctx context.Context, repo users.Repository, email, phone string) (bool, error) {
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	if _, err := repo.FindByPhoneNumber(ctx, phone); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	return false, nil
}

func (s *AccountService) findByEmailOrPhone(ctx context.Context, repo users.Repository, identifier string) (*models.User, error) {
	user, err := repo.FindByEmail(ctx, identifier)
	if err == nil || !errors.Is(err, common.ErrNotFound) {
		return user, err
	}
	return repo.FindByPhoneNumber(ctx, identifier)
}
