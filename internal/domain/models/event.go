package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChannelID   uuid.UUID `json:"channel_id" db:"channel_id"`
	CreatorID   uuid.UUID `json:"creator_id" db:"creator_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewEvent(channelID, creatorID uuid.UUID, title, description string, startsAt time.Time) *Event {
	return &Event{
		ID:          uuid.New(),
		ChannelID:   channelID,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		StartsAt:    startsAt,
		CreatedAt:   time.Now(),
	}
}
