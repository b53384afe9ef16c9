package models

import (
	"github.com/smartfarm/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
	}
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
