package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a registered account stored in users.json
type User struct {
	ID        uint      `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash, never rendered
	Avatar    string    `json:"avatar,omitempty"` // media key, empty means the default avatar
	Group     string    `json:"group"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	DefaultGroup = "user"
	DefaultTheme = "black"
)

// RegisterRequest defines the form body for creating a new account
type RegisterRequest struct {
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the form body for signing in
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// UpdateNicknameRequest defines the form body for renaming an account
type UpdateNicknameRequest struct {
	Nickname string `form:"nickname" validate:"required,min=1,max=50"`
}

// UpdateThemeRequest defines the form body for switching the UI theme
type UpdateThemeRequest struct {
	Theme string `form:"theme" validate:"required,oneof=black white"`
}

// SessionClaims are the claims carried by the session cookie
type SessionClaims struct {
	UserID    uint   `json:"user_id"`
	ChannelID string `json:"channel_id"`
	jwt.RegisteredClaims
}
