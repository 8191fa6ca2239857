package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewPost(channelID, authorID uuid.UUID, body string) *Post {
	return &Post{
		ID:        uuid.New(),
		ChannelID: channelID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
