package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffUser is a counter employee who may advance orders and edit the menu.
type StaffUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// LoginRequest is the staff login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed staff token.
type LoginResponse struct {
	Token string `json:"token"`
}
