package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing passwords.
// Tests may lower it to bcrypt.MinCost.
var BcryptCost = 12

// maxPasswordBytes is the bcrypt input limit
const maxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a registered account. It owns zero or more fields and is
// immutable after registration.
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
}

// NewUser validates the registration data and creates a user with a
// salted password hash.
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, shared.NewValidationError("Name, email and password are required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("Name cannot exceed 200 characters")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserIDFromString parses a user id taken from a token
func UserIDFromString(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) > maxPasswordBytes {
		return shared.NewValidationError("Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
