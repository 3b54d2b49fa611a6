// internal/app/features/authapi/login.go

package authapi

import (
	"net/http"
	"time"

	"github.com/noteflow/noteflow/internal/app/system/auth"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /api/auth/login. A wrong email and a wrong
// password produce the same response.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.Tokens.Mint(user)
	if err != nil {
		h.Log.Error("token mint failed", zap.Error(err), zap.String("user", user.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	h.setTokenCookie(w, token)
	h.Log.Info("user signed in", zap.String("user", user.ID.Hex()))
	httpjson.Write(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// ServeLogout handles POST /api/auth/logout by expiring the token
// cookie. The token itself stays valid until its expiry; clients are
// expected to discard it.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
