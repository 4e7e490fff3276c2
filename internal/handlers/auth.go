package handlers

import (
	"errors"
	"net/http"

	"hallmate/internal/auth"
	"hallmate/internal/httputil"
	"hallmate/internal/middleware"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// AuthHandler serves registration, login, and the current-user lookup.
type AuthHandler struct {
	auth  *auth.PasswordAuthenticator
	jwt   *auth.JWTManager
	store storage.Store
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(pw *auth.PasswordAuthenticator, jwt *auth.JWTManager, store storage.Store) *AuthHandler {
	return &AuthHandler{auth: pw, jwt: jwt, store: store}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// userResponse is the public shape of a user, without the password hash.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Register creates an account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			httputil.WriteError(w, http.StatusConflict, err.Error())
		default:
			httputil.WriteServiceError(w, err)
		}
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(user)})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(user)})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if user == nil {
		httputil.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
