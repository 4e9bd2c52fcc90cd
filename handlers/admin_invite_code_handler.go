package handlers

import (
	"net/http"
	"time"

	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/services"
)

type AdminInviteCodeHandler struct {
	Invites *services.InviteService
}

func NewAdminInviteCodeHandler(invites *services.InviteService) *AdminInviteCodeHandler {
	return &AdminInviteCodeHandler{Invites: invites}
}

type InviteCodeCreatePayload struct {
	ExpiresAt *string `json:"expires_at,omitempty"` // RFC 3339, e.g. "2026-12-31T23:59:59Z"; omitted never expires
	MaxUses   *int    `json:"max_uses,omitempty"`   // omitted for unlimited
}

// InviteCodeResponseDTO for API responses
type InviteCodeResponseDTO struct {
	ID              uint    `json:"id"`
	Code            string  `json:"code"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	MaxUses         *int    `json:"max_uses,omitempty"`
	Uses            int     `json:"uses"`
	IsActive        bool    `json:"is_active"`
	CreatedByUserID uint    `json:"created_by_user_id"`
	CreatedAt       string  `json:"created_at"`
}

func toInviteCodeResponseDTO(ic *models.InviteCode) InviteCodeResponseDTO {
	var expiresAtStr *string
	if ic.ExpiresAt != nil {
		s := ic.ExpiresAt.Format(time.RFC3339)
		expiresAtStr = &s
	}
	return InviteCodeResponseDTO{
		ID:              ic.ID,
		Code:            ic.Code,
		ExpiresAt:       expiresAtStr,
		MaxUses:         ic.MaxUses,
		Uses:            ic.Uses,
		IsActive:        ic.IsActive,
		CreatedByUserID: ic.CreatedByUserID,
		CreatedAt:       ic.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AdminInviteCodeHandler) ListInviteCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Invites.List(r.Context(), requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	dtos := make([]InviteCodeResponseDTO, len(codes))
	for i := range codes {
		dtos[i] = toInviteCodeResponseDTO(&codes[i])
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

func (h *AdminInviteCodeHandler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	var payload InviteCodeCreatePayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	var expiresAt *time.Time
	if payload.ExpiresAt != nil && *payload.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, *payload.ExpiresAt)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "validation_error", "expires_at must be RFC 3339")
			return
		}
		expiresAt = &t
	}

	code, err := h.Invites.Create(r.Context(), requesterID(r), expiresAt, payload.MaxUses)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toInviteCodeResponseDTO(code))
}

// DeactivateInviteCode keeps the row but stops the code from being redeemed.
func (h *AdminInviteCodeHandler) DeactivateInviteCode(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "invite_id")
	if !ok {
		return
	}
	if err := h.Invites.Deactivate(r.Context(), requesterID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
