package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AccountType gates admin-only operations.
type AccountType string

const (
	AccountTypeUser  AccountType = "user"
	AccountTypeAdmin AccountType = "admin"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == AccountTypeUser || t == AccountTypeAdmin
}

// User is a registered account. Username is unique; account type and global
// permissions decide what the user may do beyond their own content.
type User struct {
	ID                uint        `json:"id" gorm:"primaryKey"`
	Username          string      `json:"username" gorm:"uniqueIndex;not null"`
	Email             string      `json:"email,omitempty" gorm:"index"`
	PasswordHash      string      `json:"-" gorm:"not null"` // never serialized
	AccountType       AccountType `json:"account_type" gorm:"not null;default:user;index"`
	Bio               string      `json:"bio,omitempty"`
	GlobalPermissions []string    `json:"global_permissions" gorm:"serializer:json"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.AccountType == AccountTypeAdmin
}

// HasGlobalPermission checks the user's directly granted permission keys.
func (u *User) HasGlobalPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}
	return false
}

// PublicUser is the subset of User shown on profile pages.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Bio: u.Bio, CreatedAt: u.CreatedAt}
}
