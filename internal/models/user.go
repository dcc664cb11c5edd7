package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает пользователя форума.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Role         string     `db:"role" json:"role"`
	Reputation   int        `db:"reputation" json:"reputation"`
	IsBanned     bool       `db:"is_banned" json:"is_banned"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	AvatarID     *uuid.UUID `db:"avatar_id" json:"avatar_id,omitempty"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PublicProfile — урезанное представление пользователя для чужих глаз.
type PublicProfile struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Role        string     `db:"role" json:"role"`
	Reputation  int        `db:"reputation" json:"reputation"`
	Bio         *string    `db:"bio" json:"bio,omitempty"`
	AvatarID    *uuid.UUID `db:"avatar_id" json:"avatar_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Public возвращает публичный профиль пользователя.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Reputation:  u.Reputation,
		Bio:         u.Bio,
		AvatarID:    u.AvatarID,
		CreatedAt:   u.CreatedAt,
	}
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
