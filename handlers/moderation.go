package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/services"
)

type ModerationHandler struct {
	Moderation *services.ModerationService
}

func (h *ModerationHandler) ListFlagged(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Moderation.ListFlagged(r.Context(), requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comments)
}

func (h *ModerationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := h.Moderation.ResolveFlag(r.Context(), id, requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comment)
}

func (h *ModerationHandler) Purge(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "comment_id")
	if !ok {
		return
	}
	if err := h.Moderation.PurgeComment(r.Context(), id, requesterID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]uint{"deleted_id": id})
}
