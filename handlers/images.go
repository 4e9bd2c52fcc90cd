package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/services"
	"github.com/go-chi/chi/v5"
)

type ImageHandler struct {
	Images *services.ImageService
}

// Details serves an image page: the upstream photo plus the local view counter,
// which this request increments.
func (h *ImageHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.Images.Details(r.Context(), chi.URLParam(r, "external_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, details)
}
