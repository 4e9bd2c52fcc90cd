package permissions

import "github.com/camden-git/mediashare/models"

// CanModerate is the single authorization check for every admin-gated comment operation.
func CanModerate(user *models.User) bool {
	return has(user, CommentModerate)
}

// Can reports whether user holds the given global permission, either directly or as an admin.
func Can(user *models.User, permission string) bool {
	return has(user, permission)
}

func has(user *models.User, permission string) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return user.HasGlobalPermission(permission)
}
