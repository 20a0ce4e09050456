package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/rs/zerolog"
)

// AuthHandler handles HTTP requests for login and signup.
type AuthHandler struct {
	service  services.AuthServiceProvider
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider, validate *validator.Validate, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{service: service, validate: validate, log: log.With().Str("component", "auth_handler").Logger()}
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginRequest
	fields, err := decodeAndValidate(h.validate, w, r, &payload)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields != nil {
		writeValidationError(w, fields)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Message:    "Login successful!",
		Data:       result,
	})
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupRequest
	fields, err := decodeAndValidate(h.validate, w, r, &payload)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields != nil {
		writeValidationError(w, fields)
		return
	}

	result, err := h.service.Signup(r.Context(), services.SignupInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			WriteError(w, http.StatusConflict, "User already exists")
			return
		}
		h.log.Error().Err(err).Str("email", payload.Email).Msg("Signup failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		StatusCode: http.StatusCreated,
		Message:    "Account created successfully!",
		Data:       result,
	})
}
