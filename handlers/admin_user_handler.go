package handlers

import (
	"net/http"
	"time"

	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/services"
)

type AdminUserHandler struct {
	Users *services.UserService
}

func NewAdminUserHandler(users *services.UserService) *AdminUserHandler {
	return &AdminUserHandler{Users: users}
}

type UserCreatePayload struct {
	Username          string             `json:"username"`
	Email             string             `json:"email"`
	Password          string             `json:"password"`
	AccountType       models.AccountType `json:"account_type"`
	GlobalPermissions []string           `json:"global_permissions"`
}

// UserResponseDTO is a simplified User model for API responses, excluding sensitive data.
type UserResponseDTO struct {
	ID                uint               `json:"id"`
	Username          string             `json:"username"`
	Email             string             `json:"email,omitempty"`
	AccountType       models.AccountType `json:"account_type"`
	GlobalPermissions []string           `json:"global_permissions"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
}

func toUserResponseDTO(user *models.User) UserResponseDTO {
	perms := user.GlobalPermissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponseDTO{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		AccountType:       user.AccountType,
		GlobalPermissions: perms,
		CreatedAt:         user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         user.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserListResponseDTO(users []models.User) []UserResponseDTO {
	dtos := make([]UserResponseDTO, len(users))
	for i := range users {
		dtos[i] = toUserResponseDTO(&users[i])
	}
	return dtos
}

// ListUsers serves GET /api/admin/users?account_type=admin; without the filter every
// user is returned.
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accountType := models.AccountType(r.URL.Query().Get("account_type"))
	users, err := h.Users.ListUsers(r.Context(), requesterID(r), accountType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserListResponseDTO(users))
}

func (h *AdminUserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload UserCreatePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	user, err := h.Users.CreateUser(r.Context(), requesterID(r), services.CreateUserInput{
		Username:          payload.Username,
		Email:             payload.Email,
		Password:          payload.Password,
		AccountType:       payload.AccountType,
		GlobalPermissions: payload.GlobalPermissions,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toUserResponseDTO(user))
}

func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "user_id")
	if !ok {
		return
	}
	if err := h.Users.DeleteUser(r.Context(), requesterID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
