package handlers

import (
	"encoding/json"
	"net/http"
	apierrors "textcompare-api/internal/pkg/errors"
	"textcompare-api/internal/services"
)

// AuthHandler handles the signature-based authorization endpoint.
type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// authRequest carries the client's proof of secret possession.
type authRequest struct {
	APIKey    string `json:"api_key"`
	Username  string `json:"username"`
	Signature string `json:"signature"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authorize validates the HMAC signature and, if the credential is eligible,
// issues a 24-hour session token.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	if req.APIKey == "" || req.Username == "" || req.Signature == "" {
		writeError(w, apierrors.ErrInvalidInput)
		return
	}

	token, err := h.authService.Authorize(r.Context(), req.APIKey, req.Username, req.Signature)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token})
}
