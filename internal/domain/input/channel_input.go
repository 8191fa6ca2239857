package input

import (
	"time"

	"github.com/commune-hq/commune/internal/domain/models"
)

type CreateChannelInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility"`
}

type CreateEventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
}
