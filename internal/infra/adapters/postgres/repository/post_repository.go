package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/commune-hq/commune/internal/domain/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.Post, error)
}

type postRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO posts (id, channel_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)",
		post.ID,
		post.ChannelID,
		post.AuthorID,
		post.Body,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post

	query := `
		SELECT id, channel_id, author_id, body, created_at
		FROM posts
		WHERE channel_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &posts, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}
