package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `gorm:"default:'user'" json:"role"`
	Status       string    `gorm:"default:'active'" json:"status"`
	TokenVersion int       `gorm:"default:1" json:"-"`
	LastLoginAt  time.Time `json:"-"`
}

// CreateUserInput is the registration request payload.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginInput is the credential payload for session issuance.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
