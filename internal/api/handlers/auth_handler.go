package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/langchain-flow/engine/internal/api/types"
	"github.com/langchain-flow/engine/internal/api/validators"
	"github.com/langchain-flow/engine/internal/auth"
	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/services"
	appErr "github.com/langchain-flow/engine/pkg/errors"
)

type AuthHandler struct {
	authService services.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate}
}

type authPayload struct {
	User   *models.User `json:"user"`
	Tokens interface{}  `json:"tokens"`
}

// Register creates a new account and returns the user plus a token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	user, tokens, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, authPayload{User: user, Tokens: tokens})
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	user, tokens, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, authPayload{User: user, Tokens: tokens})
}

// Refresh re-issues a token pair from a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req types.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, appErr.Invalid("validation failed", validators.Violations(err)...))
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, map[string]*auth.TokenPair{"tokens": tokens})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.authService.GetUser(r.Context(), id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, user)
}

// Logout is stateless: tokens expire on their own, the endpoint exists so
// clients have a uniform sign-out call.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "logged out"})
}
