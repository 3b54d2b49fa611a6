// internal/app/features/authapi/register.go

package authapi

import (
	"errors"
	"net/http"

	userstore "github.com/noteflow/noteflow/internal/app/store/users"
	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"github.com/noteflow/noteflow/internal/app/system/inputval"
	"github.com/noteflow/noteflow/internal/app/system/sanitize"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ServeRegister handles POST /api/auth/register.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = sanitize.Text(req.Name)
	switch {
	case !inputval.ValidName(req.Name):
		httpjson.Error(w, http.StatusBadRequest, "name must be at least 3 characters")
		return
	case !inputval.ValidEmail(req.Email):
		httpjson.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	case !inputval.ValidPassword(req.Password):
		httpjson.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hashing failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user, err := h.Users.Create(r.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.Log.Error("user insert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := h.Tokens.Mint(user)
	if err != nil {
		h.Log.Error("token mint failed", zap.Error(err), zap.String("user", user.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.setTokenCookie(w, token)
	h.Log.Info("user registered", zap.String("user", user.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}
