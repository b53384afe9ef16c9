package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo is the public summary of a user. It never carries the hash.
type UserInfo struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// ToUserInfo converts a domain user into its public summary
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
