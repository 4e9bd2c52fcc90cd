package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/models"
	"github.com/camden-git/mediashare/services"
)

type AlbumHandler struct {
	Albums *services.AlbumService
}

type AlbumPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AlbumMediaPayload struct {
	MediaID string           `json:"media_id"`
	URL     string           `json:"url"`
	Kind    models.MediaKind `json:"kind"`
}

func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var payload AlbumPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	album, err := h.Albums.CreateAlbum(r.Context(), requesterID(r), payload.Title, payload.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, album)
}

func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "album_id")
	if !ok {
		return
	}
	album, err := h.Albums.GetAlbum(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, album)
}

func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "album_id")
	if !ok {
		return
	}
	var payload AlbumPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	album, err := h.Albums.EditAlbum(r.Context(), id, requesterID(r), payload.Title, payload.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, album)
}

// DeleteAlbum removes the album with its media links, comments and likes. The
// client navigates away only after this returns.
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "album_id")
	if !ok {
		return
	}
	if err := h.Albums.DeleteAlbum(r.Context(), id, requesterID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]uint{"deleted_id": id})
}

func (h *AlbumHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "album_id")
	if !ok {
		return
	}
	var payload AlbumMediaPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	album, err := h.Albums.AddMedia(r.Context(), id, requesterID(r), payload.MediaID, payload.URL, payload.Kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, album)
}

func (h *AlbumHandler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	albumID, ok := uintParam(w, r, "album_id")
	if !ok {
		return
	}
	linkID, ok := uintParam(w, r, "link_id")
	if !ok {
		return
	}
	album, err := h.Albums.RemoveMedia(r.Context(), albumID, linkID, requesterID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, album)
}
