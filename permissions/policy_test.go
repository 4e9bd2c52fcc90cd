package permissions

import (
	"testing"

	"github.com/camden-git/mediashare/models"
	"github.com/stretchr/testify/assert"
)

func TestCanModerate(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{name: "anonymous", user: nil, want: false},
		{name: "regular user", user: &models.User{AccountType: models.AccountTypeUser}, want: false},
		{name: "admin", user: &models.User{AccountType: models.AccountTypeAdmin}, want: true},
		{
			name: "user with moderate permission",
			user: &models.User{AccountType: models.AccountTypeUser, GlobalPermissions: []string{CommentModerate}},
			want: true,
		},
		{
			name: "user with unrelated permission",
			user: &models.User{AccountType: models.AccountTypeUser, GlobalPermissions: []string{InviteList}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModerate(tt.user))
		})
	}
}

func TestCan(t *testing.T) {
	user := &models.User{AccountType: models.AccountTypeUser, GlobalPermissions: []string{UserList}}
	assert.True(t, Can(user, UserList))
	assert.False(t, Can(user, UserDelete))
	assert.True(t, Can(&models.User{AccountType: models.AccountTypeAdmin}, UserDelete))
}

func TestIsValidPermissionKey(t *testing.T) {
	assert.True(t, IsValidPermissionKey(CommentModerate))
	assert.True(t, IsValidPermissionKey(InviteDelete))
	assert.False(t, IsValidPermissionKey("album.zip"))
}
