package handlers

import (
	"net/http"

	"github.com/camden-git/mediashare/permissions"
)

type PermissionHandler struct{}

// ListPermissionDefinitions serves the statically defined permission groups so an
// admin UI can offer them when creating users.
func (h *PermissionHandler) ListPermissionDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, permissions.DefinedPermissionGroups)
}
