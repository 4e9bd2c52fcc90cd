package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/services"
)

type CommentHandler struct {
	Comments *services.CommentService
}

type CommentCreatePayload struct {
	TargetKind models.TargetKind `json:"target_kind"`
	TargetID   string            `json:"target_id"`
	Body       string            `json:"body"`
}

type CommentUpdatePayload struct {
	Body string `json:"body"`
}

// List serves GET /api/comments?target_kind=image&target_id=123, oldest first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	comments, err := h.Comments.ListComments(r.Context(), models.TargetKind(q.Get("target_kind")), q.Get("target_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comments)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CommentCreatePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	comment, err := h.Comments.AddComment(r.Context(), requesterID(r), payload.TargetKind, payload.TargetID, payload.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, comment)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "comment_id")
	if !ok {
		return
	}
	var payload CommentUpdatePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	comment, err := h.Comments.EditComment(r.Context(), id, requesterID(r), payload.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "comment_id")
	if !ok {
		return
	}
	if err := h.Comments.DeleteComment(r.Context(), id, requesterID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]uint{"deleted_id": id})
}

func (h *CommentHandler) Flag(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := h.Comments.FlagComment(r.Context(), id, requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comment)
}
