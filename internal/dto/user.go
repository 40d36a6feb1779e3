package dto

import (
	"time"

	dom "github.com/seowalex/cvwo/internal/domain"
)

// UserType is the JSON:API resource type of users.
const UserType = "users"

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"max=120"`
}

// UserResponse is returned alongside a token.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse carries a bearer token for the Authorization header.
type TokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type SettingsAttributes struct {
	HideCompleted bool   `json:"hide_completed"`
	AddToBottom   bool   `json:"add_to_bottom"`
	Sort          string `json:"sort"`
}

type UserAttributes struct {
	Email    string             `json:"email"`
	Name     string             `json:"name"`
	Settings SettingsAttributes `json:"settings"`
}

type UserResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes UserAttributes `json:"attributes"`
	Links      Links          `json:"links"`
}

type UserDocument struct {
	Data UserResource `json:"data"`
}

// UpdateUserDocument is the body of PATCH /users/me.
type UpdateUserDocument struct {
	Data *UpdateUserData `json:"data" binding:"required"`
}

type UpdateUserData struct {
	Type       string               `json:"type" binding:"required"`
	ID         string               `json:"id"`
	Attributes UpdateUserAttributes `json:"attributes"`
}

type UpdateUserAttributes struct {
	Name     dom.Optional[string] `json:"name"`
	Settings *UpdateSettings      `json:"settings"`
}

type UpdateSettings struct {
	HideCompleted dom.Optional[bool]   `json:"hide_completed"`
	AddToBottom   dom.Optional[bool]   `json:"add_to_bottom"`
	Sort          dom.Optional[string] `json:"sort"`
}

func (a UpdateUserAttributes) ToDomain() dom.UserPatch {
	p := dom.UserPatch{Name: a.Name}
	if a.Settings != nil {
		p.HideCompleted = a.Settings.HideCompleted
		p.AddToBottom = a.Settings.AddToBottom
		p.Sort = a.Settings.Sort
	}
	return p
}
