package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/services"
)

type AccountService interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	ChangePassword(ctx context.Context, in services.ChangePasswordInput, userID int64) (*models.UserView, error)
}

type signupRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"notblank"`
	Password     string `json:"password" validate:"notblank"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"notblank"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=100"`
}

type userResponse struct {
	User *models.UserView `json:"user"`
}

type AccountHandler struct {
	accounts AccountService
	validate *Validator
	metrics  *Metrics
	logger   logging.Logger
}

func NewAccountHandler(accounts AccountService, v *Validator, m *Metrics, logger logging.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: v,
		metrics:  m,
		logger:   logger.With("module", "account_handler"),
	}
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if err := h.validate.Decode(w, r, &body); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	result, err := h.accounts.Signup(r.Context(), services.SignupInput{
		Name:        body.Name,
		Email:       body.Email,
		Password:    body.Password,
		PhoneNumber: body.PhoneNumber,
	})
	h.metrics.RecordAuthAttempt("signup", err == nil)
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := h.validate.Decode(w, r, &body); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), services.LoginInput{
		EmailOrPhone: body.EmailOrPhone,
		Password:     body.Password,
	})
	h.metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var body changePasswordRequest
	if err := h.validate.Decode(w, r, &body); err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	user, err := h.accounts.ChangePassword(r.Context(), services.ChangePasswordInput{
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}, principal.UserID)
	if err != nil {
		writeServiceErr(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}
