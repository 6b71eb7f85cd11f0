package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
)

var errContactExists = fmt.Errorf("%w: contact with this email or phone number already exists", common.ErrAlreadyExists)

// ContactService manages contacts on behalf of their owner. Every method
// takes the authenticated owner's id; no method crosses owners.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContactService {
	return &ContactService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "contacts"),
	}
}

func (s *ContactService) Create(ctx context.Context, fields models.ContactFields, ownerID int64) (*models.ContactView, error) {
	contact := &models.Contact{UserID: ownerID}
	contact.Apply(fields)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		if err := s.checkUnique(ctx, repo, contact); err != nil {
			return err
		}

		var err error
		contact, err = repo.Create(ctx, contact)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			s.logger.Warn(ctx, "contact already exists", "user_id", ownerID, "email", fields.Email)
			return nil, errContactExists
		}
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	s.logger.Info(ctx, "contact created", "contact_id", contact.ID, "user_id", ownerID)
	return contact.View(), nil
}

// Update overwrites every mutable field of an owned contact.
func (s *ContactService) Update(ctx context.Context, contactID int64, fields models.ContactFields, ownerID int64) (*models.ContactView, error) {
	var contact *models.Contact

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		var err error
		contact, err = s.findOwned(ctx, repo, contactID, ownerID)
		if err != nil {
			return err
		}

		contact.Apply(fields)
		if err := s.checkUnique(ctx, repo, contact); err != nil {
			return err
		}

		return repo.Update(ctx, contact)
	})

	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrForbidden):
			return nil, err
		case errors.Is(err, common.ErrAlreadyExists):
			s.logger.Warn(ctx, "contact update collides with existing contact", "contact_id", contactID, "user_id", ownerID)
			return nil, errContactExists
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}

	s.logger.Info(ctx, "contact updated", "contact_id", contactID, "user_id", ownerID)
	return contact.View(), nil
}

func (s *ContactService) Delete(ctx context.Context, contactID int64, ownerID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contacts(tx)

		if _, err := s.findOwned(ctx, repo, contactID, ownerID); err != nil {
			return err
		}
		return repo.Delete(ctx, contactID)
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrForbidden) {
			return err
		}
		return fmt.Errorf("error deleting contact: %w", err)
	}

	s.logger.Info(ctx, "contact deleted", "contact_id", contactID, "user_id", ownerID)
	return nil
}

// ListByOwner returns the owner's contacts in insertion order.
func (s *ContactService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.ContactView, error) {
	list, err := s.repomanager.Contacts(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	return views(list), nil
}

// Search matches query case-insensitively against names, email and phone
// number. An empty query matches everything.
func (s *ContactService) Search(ctx context.Context, query string, ownerID int64) ([]*models.ContactView, error) {
	list, err := s.repomanager.Contacts(s.db).Search(ctx, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("error searching contacts: %w", err)
	}
	return views(list), nil
}

// findOwned loads a contact and checks ownership. A missing contact is
// reported before a foreign one.
func (s *ContactService) findOwned(ctx context.Context, repo contacts.Repository, contactID, ownerID int64) (*models.Contact, error) {
	contact, err := repo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: contact not found with id %d", common.ErrNotFound, contactID)
		}
		return nil, err
	}

	if contact.UserID != ownerID {
		s.logger.Warn(ctx, "contact access denied", "contact_id", contactID, "user_id", ownerID)
		return nil, fmt.Errorf("%w: you do not have permission to access this contact", common.ErrForbidden)
	}

	return contact, nil
}

// checkUnique fails with ErrAlreadyExists when another contact of the same
// owner already uses the email or phone number of c.
func (s *ContactService) checkUnique(ctx context.Context, repo contacts.Repository, c *models.Contact) error {
	if other, err := repo.FindByOwnerAndEmail(ctx, c.UserID, c.Email); err == nil {
		if other.ID != c.ID {
			return common.ErrAlreadyExists
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if other, err := repo.FindByOwnerAndPhoneNumber(ctx, c.UserID, c.PhoneNumber); err == nil {
		if other.ID != c.ID {
			return common.ErrAlreadyExists
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	return nil
}

func views(list []*models.Contact) []*models.ContactView {
	out := make([]*models.ContactView, 0, len(list))
	for _, c := range list {
		out = append(out, c.View())
	}
	return out
}
