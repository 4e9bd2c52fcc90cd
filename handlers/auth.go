package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/services"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterPayload struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	session, err := h.Users.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

// Register handles new user registration using an invite code. The response carries
// a session so the client is signed in right away.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	session, err := h.Users.Register(r.Context(), payload.Username, payload.Email, payload.Password, payload.InviteCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

// CurrentUser returns the account behind the session, including account type and
// global permissions so the client can decide which controls to show.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.CurrentUser(r.Context(), requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// Profile is the public page of a user with their albums.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Users.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}
