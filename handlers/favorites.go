package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/services"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
}

type TogglePayload struct {
	TargetKind models.TargetKind `json:"target_kind"`
	TargetID   string            `json:"target_id"`
	URL        string            `json:"url,omitempty"`
}

// Toggle flips the like and answers with the state as stored afterwards.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var payload TogglePayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	state, err := h.Favorites.ToggleLike(r.Context(), requesterID(r), payload.TargetKind, payload.TargetID, payload.URL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

// State serves GET /api/favorites/state?target_kind=&target_id= for the initial render.
func (h *FavoriteHandler) State(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := h.Favorites.LikeState(r.Context(), requesterID(r), models.TargetKind(q.Get("target_kind")), q.Get("target_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *FavoriteHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Favorites.ListFavorites(r.Context(), requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, favs)
}

func (h *FavoriteHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Favorites.ListAlbumFavorites(r.Context(), requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, favs)
}
