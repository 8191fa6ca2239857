package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Body string `json:"body"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
}

type AttendeesResponse struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}
