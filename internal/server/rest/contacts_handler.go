package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type ContactService interface {
	Create(ctx context.Context, fields models.ContactFields, ownerID int64) (*models.ContactView, error)
	Update(ctx context.Context, contactID int64, fields models.ContactFields, ownerID int64) (*models.ContactView, error)
	Delete(ctx context.Context, contactID int64, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.ContactView, error)
	Search(ctx context.Context, query string, ownerID int64) ([]*models.ContactView, error)
}

type contactRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,max=45"`
	LastName    string `json:"lastName" validate:"max=45"`
	Email       string `json:"email" validate:"required,email,max=45"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

func (c *contactRequest) fields() models.ContactFields {
	return models.ContactFields{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
	}
}

// ContactHandler serves /contacts. Every route runs behind RequirePrincipal.
type ContactHandler struct {
	contacts ContactService
	validate *Validator
	logger   logging.Logger
}

func NewContactHandler(contacts ContactService, v *Validator, logger logging.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		validate: v,
		logger:   logger.With("module", "contact_handler"),
	}
}

func ownerID(r *http.Request) int64 {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p.UserID
}

func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "contactId"), 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusBadRequest, "invalid contact id")
		return 0, false
	}
	return id, true
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body contactRequest
	if err := h.validate.Decode(w, r, &body); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	contact, err := h.contacts.Create(r.Context(), body.fields(), ownerID(r))
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	var body contactRequest
	if err := h.validate.Decode(w, r, &body); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, body.fields(), ownerID(r))
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), id, ownerID(r)); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.ListByOwner(r.Context(), ownerID(r))
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["query"]
	if !ok {
		writeErr(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	list, err := h.contacts.Search(r.Context(), values[0], ownerID(r))
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
