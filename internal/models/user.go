package models

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the displayed profile. Email and password are write-only inputs
// to account creation and never part of this entity.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// NewUserInput is the admin-side creation payload. Password is required on
// create and optional on edit.
type NewUserInput struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// UserPatch carries a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Name      *string `json:"name,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
