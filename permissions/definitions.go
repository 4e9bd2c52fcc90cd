package permissions

// Permission keys that may be granted directly to a user. Admin accounts hold all of them implicitly.
const (
	CommentModerate = "comment.moderate"
	UserList        = "user.list"
	UserCreate      = "user.create"
	UserDelete      = "user.delete"
	InviteCreate    = "invite.create"
	InviteList      = "invite.list"
	InviteDelete    = "invite.delete"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "comment.moderate"
	Name        string `json:"name"`        // friendly name
	Description string `json:"description"` // what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "moderation",
		Name:        "Moderation",
		Description: "Reviewing flagged comments.",
		Permissions: []PermissionDefinition{
			{
				Key:         CommentModerate,
				Name:        "Moderate Comments",
				Description: "Allows listing flagged comments, clearing flags and deleting any comment.",
			},
		},
	},
	{
		Key:         "user",
		Name:        "User Management",
		Description: "Permissions related to managing user accounts.",
		Permissions: []PermissionDefinition{
			{Key: UserList, Name: "List Users", Description: "Allows viewing the list of user accounts."},
			{Key: UserCreate, Name: "Create User", Description: "Allows creating user accounts directly."},
			{Key: UserDelete, Name: "Delete User", Description: "Allows deleting user accounts and their albums."},
		},
	},
	{
		Key:         "invite",
		Name:        "Invite Codes",
		Description: "Permissions related to registration invite codes.",
		Permissions: []PermissionDefinition{
			{Key: InviteCreate, Name: "Create Invite Codes", Description: "Allows creating invite codes."},
			{Key: InviteList, Name: "List Invite Codes", Description: "Allows viewing invite codes."},
			{Key: InviteDelete, Name: "Deactivate Invite Codes", Description: "Allows deactivating invite codes."},
		},
	},
}

var allPermissionKeysMap map[string]PermissionDefinition

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
		}
	}
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}
