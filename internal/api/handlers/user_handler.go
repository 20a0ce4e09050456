package handlers

import (
	"net/http"

	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for the caller's own account.
type UserHandler struct {
	log zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(log zerolog.Logger) *UserHandler {
	return &UserHandler{log: log.With().Str("component", "user_handler").Logger()}
}

// Profile returns the principal attached to the request by the auth middleware.
// Failures while loading that principal are answered by the middleware.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.log.Warn().Msg("Profile requested without an attached user")
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	h.log.Debug().Str("user_id", principal.ID).Msg("User profile requested")
	writeJSON(w, http.StatusOK, principal)
}
