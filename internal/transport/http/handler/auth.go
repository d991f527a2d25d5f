package handler

import (
	"errors"
	"net/http"

	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/types"
)

// Login handles POST /auth. A matching access key yields a token that is
// the key echoed back; clients present it as a bearer credential.
func (h *Repo) Login(w http.ResponseWriter, r *http.Request) {
	var req types.AuthRequest
	if err := decodeJSON(r, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("Invalid request body"))
		return
	}
	if req.AccessKey == "" {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam("access_key is required", types.ErrorTypeInvalidRequest, "access_key"))
		return
	}

	token, err := h.Gate.Authenticate(req.AccessKey)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		types.WriteError(w, http.StatusServiceUnavailable,
			types.ErrServiceUnavailable("Authentication not configured. Please set ACCESS_KEY."))
		return
	case err != nil:
		types.WriteError(w, http.StatusForbidden, types.ErrPermission("Invalid access key"))
		return
	}

	writeJSON(w, http.StatusOK, types.AuthResponse{
		Authenticated: true,
		Message:       "Authentication successful",
		Token:         token,
	})
}
