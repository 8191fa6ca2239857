package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Contact   string    `json:"contact" db:"contact"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(username, contact string) *User {
	now := time.Now()

	return &User{
		ID:        uuid.New(),
		Username:  username,
		Contact:   contact,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
